package models

import "gorm.io/gorm"

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Fullname        string `json:"fullname"`
	Username        string `json:"username"`
	Email           string `json:"email" gorm:"uniqueIndex"`
	Phone           string `json:"phone"`
	Password        string `json:"-"`
	Role            string `json:"role"`
	Activated       bool   `json:"activated"`
	AcceptTerms     bool   `json:"acceptTerms"`
	SubscribeToNews bool   `json:"subscribeToNews"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Address struct {
	gorm.Model
	UserID     int    `json:"userId"`
	FullName   string `json:"fullName" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	City       string `json:"city" binding:"required"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}
