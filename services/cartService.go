package services

import (
	"errors"

	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartLine is one locally-held cart entry sent by the client at
// login. Any price the client sends is ignored; the persisted line
// always takes the product's current price.
type CartLine struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

// SkippedLine reports a local line that could not be merged.
type SkippedLine struct {
	ProductID int    `json:"productId"`
	Reason    string `json:"reason"`
}

type CartIssue struct {
	CartItemID int    `json:"cartItemId"`
	ProductID  int    `json:"productId"`
	Reason     string `json:"reason"`
	Quantity   int    `json:"quantity"`
	Inventory  int    `json:"inventory"`
}

type CartValidation struct {
	Valid  bool        `json:"valid"`
	Issues []CartIssue `json:"issues"`
}

func getOrCreateCart(db *gorm.DB, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart returns the user's cart with its items, creating an empty
// cart on first access.
func GetCart(db *gorm.DB, userID int) (*models.Cart, error) {
	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}
	if err := db.Preload("Items").First(cart, cart.ID).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// SyncCart merges a client-held cart into the user's persisted cart.
// Merge policy per line:
//   - missing or inactive product: line is skipped and reported, not
//     an error
//   - existing persisted line: quantity becomes
//     min(max(existing, local), inventory)
//   - no persisted line: quantity becomes min(local, inventory) and
//     the line is only created if that is positive
//
// The whole merge runs in one transaction so a failure cannot leave
// the cart half-merged.
func SyncCart(db *gorm.DB, userID int, lines []CartLine) (*models.Cart, []SkippedLine, error) {
	skipped := []SkippedLine{}

	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			var product models.Product
			err := tx.First(&product, line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("sync: skipping missing product", zap.Int("productId", line.ProductID))
				skipped = append(skipped, SkippedLine{ProductID: line.ProductID, Reason: "product not found"})
				continue
			}
			if err != nil {
				return err
			}
			if !product.Active {
				logger.Warn("sync: skipping inactive product", zap.Int("productId", line.ProductID))
				skipped = append(skipped, SkippedLine{ProductID: line.ProductID, Reason: "product not available"})
				continue
			}

			var item models.CartItem
			err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
			switch {
			case err == nil:
				merged := max(item.Quantity, line.Quantity)
				item.Quantity = min(merged, product.Inventory)
				item.ProductName = product.Name
				item.ProductPrice = product.Price
				if err := tx.Save(&item).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				quantity := min(line.Quantity, product.Inventory)
				if quantity <= 0 {
					skipped = append(skipped, SkippedLine{ProductID: line.ProductID, Reason: "out of stock"})
					continue
				}
				item = models.CartItem{
					CartID:       int(cart.ID),
					ProductID:    int(product.ID),
					ProductName:  product.Name,
					ProductPrice: product.Price,
					Quantity:     quantity,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	cart, err := GetCart(db, userID)
	if err != nil {
		return nil, nil, err
	}
	return cart, skipped, nil
}

// AddToCart puts quantity units of a product into the user's cart,
// incrementing an existing line if one exists. The inventory ceiling
// is enforced against the line's new total, not just the increment.
func AddToCart(db *gorm.DB, userID, productID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductInactive
	}
	if quantity > product.Inventory {
		return nil, ErrInsufficientInventory
	}

	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
	if err == nil {
		newTotal := item.Quantity + quantity
		if newTotal > product.Inventory {
			return nil, ErrInsufficientInventory
		}
		item.Quantity = newTotal
		item.ProductName = product.Name
		item.ProductPrice = product.Price
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = models.CartItem{
		CartID:       int(cart.ID),
		ProductID:    int(product.ID),
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     quantity,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// findOwnedCartItem loads a cart item and verifies the parent cart
// belongs to userID.
func findOwnedCartItem(db *gorm.DB, userID, itemID int) (*models.CartItem, error) {
	var item models.CartItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := db.First(&cart, item.CartID).Error; err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, ErrNotCartOwner
	}
	return &item, nil
}

func UpdateCartItemQuantity(db *gorm.DB, userID, itemID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := findOwnedCartItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if quantity > product.Inventory {
		return nil, ErrInsufficientInventory
	}

	item.Quantity = quantity
	item.ProductPrice = product.Price
	if err := db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func RemoveFromCart(db *gorm.DB, userID, itemID int) error {
	item, err := findOwnedCartItem(db, userID, itemID)
	if err != nil {
		return err
	}
	return db.Delete(item).Error
}

// ValidateCart reports cart lines whose product has gone inactive,
// disappeared, or no longer covers the line's quantity. It never
// mutates the cart.
func ValidateCart(db *gorm.DB, userID int) (*CartValidation, error) {
	cart, err := GetCart(db, userID)
	if err != nil {
		return nil, err
	}

	validation := CartValidation{Valid: true, Issues: []CartIssue{}}
	for _, item := range cart.Items {
		var product models.Product
		err := db.First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			validation.Issues = append(validation.Issues, CartIssue{
				CartItemID: int(item.ID),
				ProductID:  item.ProductID,
				Reason:     "product no longer exists",
				Quantity:   item.Quantity,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.Active {
			validation.Issues = append(validation.Issues, CartIssue{
				CartItemID: int(item.ID),
				ProductID:  item.ProductID,
				Reason:     "product is no longer available",
				Quantity:   item.Quantity,
				Inventory:  product.Inventory,
			})
			continue
		}
		// Sync clamps lines to inventory, so a sold-out product
		// leaves a quantity-0 line behind. Flag it here.
		if item.Quantity <= 0 {
			validation.Issues = append(validation.Issues, CartIssue{
				CartItemID: int(item.ID),
				ProductID:  item.ProductID,
				Reason:     "product is out of stock",
				Quantity:   item.Quantity,
				Inventory:  product.Inventory,
			})
			continue
		}
		if item.Quantity > product.Inventory {
			validation.Issues = append(validation.Issues, CartIssue{
				CartItemID: int(item.ID),
				ProductID:  item.ProductID,
				Reason:     "quantity exceeds available inventory",
				Quantity:   item.Quantity,
				Inventory:  product.Inventory,
			})
		}
	}
	validation.Valid = len(validation.Issues) == 0
	return &validation, nil
}

// ClearCart removes every line from the cart. The cart row itself is
// kept.
func ClearCart(db *gorm.DB, cartID int) error {
	return db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
