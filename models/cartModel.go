package models

import "gorm.io/gorm"

// CartItem snapshots the product name and price at the time the line
// is written. The snapshot is refreshed on every sync so a client can
// never pin a stale or forged price.
type CartItem struct {
	gorm.Model
	CartID       int     `json:"cartId" gorm:"uniqueIndex:idx_cart_product"`
	ProductID    int     `json:"productId" gorm:"uniqueIndex:idx_cart_product"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

type Cart struct {
	gorm.Model
	UserID int        `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
