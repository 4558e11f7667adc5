package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sokoline/sokoline-api/models"
	"gorm.io/gorm"
)

// CommissionRate is the platform's cut of every vendor sale. The
// vendor keeps the remainder.
const CommissionRate = 0.15

var vendorTransitions = map[string][]string{
	models.VendorPending:   {models.VendorApproved, models.VendorRejected},
	models.VendorApproved:  {models.VendorSuspended},
	models.VendorSuspended: {models.VendorApproved},
	models.VendorRejected:  {},
}

var payoutTransitions = map[string][]string{
	models.PayoutPending:    {models.PayoutProcessing, models.PayoutFailed},
	models.PayoutProcessing: {models.PayoutCompleted, models.PayoutFailed},
	models.PayoutCompleted:  {},
	models.PayoutFailed:     {},
}

// VendorStats are derived figures, recomputed from order history on
// every request rather than maintained as a running ledger.
type VendorStats struct {
	Revenue          float64 `json:"revenue"`
	Commission       float64 `json:"commission"`
	NetEarnings      float64 `json:"netEarnings"`
	PaidOut          float64 `json:"paidOut"`
	PendingPayouts   float64 `json:"pendingPayouts"`
	AvailableBalance float64 `json:"availableBalance"`
	OrderItemCount   int64   `json:"orderItemCount"`
}

func ApplyAsVendor(db *gorm.DB, userID int, businessName, description, phone string) (*models.Vendor, error) {
	var existing models.Vendor
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, ErrVendorExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vendor := models.Vendor{
		UserID:       userID,
		BusinessName: businessName,
		Description:  description,
		Phone:        phone,
		Status:       models.VendorPending,
	}
	if err := db.Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func GetVendorByUserID(db *gorm.DB, userID int) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := db.Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// TransitionVendorStatus moves a vendor through the onboarding enum.
// Approval also promotes the backing user to the vendor role.
func TransitionVendorStatus(db *gorm.DB, vendorID int, next string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	allowed := false
	for _, to := range vendorTransitions[vendor.Status] {
		if to == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, vendor.Status, next)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&vendor).Update("status", next).Error; err != nil {
			return err
		}
		if next == models.VendorApproved {
			return tx.Model(&models.User{}).
				Where("id = ?", vendor.UserID).
				Update("role", models.RoleVendor).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	vendor.Status = next
	return &vendor, nil
}

// vendorRevenue sums price*quantity over the vendor's order items,
// excluding cancelled orders.
func vendorRevenue(db *gorm.DB, vendorID int) (float64, int64, error) {
	var revenue float64
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ? AND orders.status != ?", vendorID, models.OrderCancelled).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, 0, err
	}

	var count int64
	err = db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ? AND orders.status != ?", vendorID, models.OrderCancelled).
		Count(&count).Error
	if err != nil {
		return 0, 0, err
	}
	return revenue, count, nil
}

func sumPayouts(db *gorm.DB, vendorID int, statuses ...string) (float64, error) {
	var total float64
	err := db.Model(&models.Payout{}).
		Where("vendor_id = ? AND status IN ?", vendorID, statuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// GetVendorStats derives revenue, the 15/85 commission split and the
// available balance (net earnings minus completed and in-flight
// payouts) at request time.
func GetVendorStats(db *gorm.DB, vendorID int) (*VendorStats, error) {
	revenue, count, err := vendorRevenue(db, vendorID)
	if err != nil {
		return nil, err
	}

	paidOut, err := sumPayouts(db, vendorID, models.PayoutCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := sumPayouts(db, vendorID, models.PayoutPending, models.PayoutProcessing)
	if err != nil {
		return nil, err
	}

	commission := revenue * CommissionRate
	net := revenue - commission
	return &VendorStats{
		Revenue:          revenue,
		Commission:       commission,
		NetEarnings:      net,
		PaidOut:          paidOut,
		PendingPayouts:   pending,
		AvailableBalance: net - paidOut - pending,
		OrderItemCount:   count,
	}, nil
}

// RequestPayout records a PENDING payout after checking the amount
// against the vendor's available balance.
func RequestPayout(db *gorm.DB, vendorID int, amount float64) (*models.Payout, error) {
	var vendor models.Vendor
	if err := db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	if vendor.Status != models.VendorApproved {
		return nil, ErrVendorNotApproved
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	stats, err := GetVendorStats(db, vendorID)
	if err != nil {
		return nil, err
	}
	if amount > stats.AvailableBalance {
		return nil, ErrInsufficientBalance
	}

	payout := models.Payout{
		VendorID:  vendorID,
		Amount:    amount,
		Reference: "PO-" + uuid.NewString(),
		Status:    models.PayoutPending,
	}
	if err := db.Create(&payout).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func TransitionPayoutStatus(db *gorm.DB, payoutID int, next string) (*models.Payout, error) {
	var payout models.Payout
	if err := db.First(&payout, payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}

	allowed := false
	for _, to := range payoutTransitions[payout.Status] {
		if to == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, payout.Status, next)
	}

	if err := db.Model(&payout).Update("status", next).Error; err != nil {
		return nil, err
	}
	payout.Status = next
	return &payout, nil
}
