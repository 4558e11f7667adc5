package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductSpecs struct {
	gorm.Model
	Label     string `json:"label" binding:"required"`
	Value     string `json:"value" binding:"required"`
	ProductID int    `json:"productId" binding:"required"`
}

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID int    `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	VendorID       int            `json:"vendorId"`
	Brand          string         `json:"brand"`
	Name           string         `json:"name" binding:"required"`
	Slug           string         `json:"slug" gorm:"uniqueIndex" binding:"required"`
	Description    string         `json:"description"`
	Price          float64        `json:"price" binding:"required"`
	Inventory      int            `json:"inventory"`
	Active         bool           `json:"active"`
	Category       string         `json:"category" binding:"required"`
	Colors         datatypes.JSON `json:"colors"`
	Specifications []ProductSpecs `json:"specifications" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type Review struct {
	gorm.Model
	ProductID int    `json:"productId" gorm:"uniqueIndex:idx_review_product_user" binding:"required"`
	UserID    int    `json:"userId" gorm:"uniqueIndex:idx_review_product_user"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}
