package models

import "gorm.io/gorm"

const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

type Order struct {
	gorm.Model
	UserID            int         `json:"userId"`
	AddressID         int         `json:"addressId"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	DeliveryLocation  string      `json:"deliveryLocation"`
	Total             float64     `json:"total"`
	Status            string      `json:"status"`
	PesapalTrackingId string      `json:"pesapalTrackingId"`
	PaymentStatus     string      `json:"paymentStatus"`
	OrderItems        []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a denormalized snapshot of a cart line at purchase
// time, so later product edits never rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	VendorID  int     `json:"vendorId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
