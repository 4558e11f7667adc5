package models

import "gorm.io/gorm"

const (
	VendorPending   = "PENDING"
	VendorApproved  = "APPROVED"
	VendorSuspended = "SUSPENDED"
	VendorRejected  = "REJECTED"
)

const (
	PayoutPending    = "PENDING"
	PayoutProcessing = "PROCESSING"
	PayoutCompleted  = "COMPLETED"
	PayoutFailed     = "FAILED"
)

type Vendor struct {
	gorm.Model
	UserID       int    `json:"userId" gorm:"uniqueIndex"`
	BusinessName string `json:"businessName" binding:"required"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
}

// Payout records a withdrawal request against a vendor's available
// balance. The balance itself is derived on demand, never stored.
type Payout struct {
	gorm.Model
	VendorID  int     `json:"vendorId"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference" gorm:"uniqueIndex"`
	Status    string  `json:"status"`
}
