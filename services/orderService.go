package services

import (
	"errors"
	"fmt"

	"github.com/sokoline/sokoline-api/models"
	"gorm.io/gorm"
)

// orderTransitions is the full set of legal order status moves.
// DELIVERED and CANCELLED are terminal.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

func CanTransitionOrder(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionOrderStatus applies a status change, rejecting anything
// the transition table does not allow. The status write is
// conditional on the status still being the one that was validated,
// so two racing transitions cannot both apply; cancelling restores
// the inventory the order had claimed in the same transaction.
func TransitionOrderStatus(db *gorm.DB, orderID int, next string) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !CanTransitionOrder(order.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", next)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}

		if next == models.OrderCancelled {
			for _, item := range order.OrderItems {
				restock := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("inventory", gorm.Expr("inventory + ?", item.Quantity))
				if restock.Error != nil {
					return restock.Error
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = next
	return &order, nil
}

// CancelOrder is the user-facing cancel: ownership is checked and the
// transition table decides whether the order can still be cancelled.
func CancelOrder(db *gorm.DB, userID, orderID int) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return TransitionOrderStatus(db, orderID, models.OrderCancelled)
}

// CheckoutCart converts the user's cart into a PENDING order. Each
// product's inventory is claimed with a conditional decrement
// (inventory >= quantity) inside the transaction, so two concurrent
// checkouts cannot jointly oversell. Cart lines are cleared once the
// order is written.
func CheckoutCart(db *gorm.DB, userID, addressID int) (*models.Order, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var address models.Address
	if err := db.First(&address, addressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}

	cart, err := GetCart(db, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		var total float64
		orderItems := make([]models.OrderItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			// Lines clamped to zero by a sync carry nothing to buy.
			if item.Quantity <= 0 {
				continue
			}

			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
				}
				return err
			}
			if !product.Active {
				return fmt.Errorf("%w: %s", ErrProductInactive, product.Name)
			}

			result := tx.Model(&models.Product{}).
				Where("id = ? AND inventory >= ?", product.ID, item.Quantity).
				UpdateColumn("inventory", gorm.Expr("inventory - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientInventory, product.Name)
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				VendorID:  product.VendorID,
				Name:      item.ProductName,
				Price:     item.ProductPrice,
				Quantity:  item.Quantity,
			})
			total += item.ProductPrice * float64(item.Quantity)
		}

		if len(orderItems) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			UserID:           userID,
			AddressID:        addressID,
			FirstName:        user.Fullname,
			Email:            user.Email,
			Phone:            address.Phone,
			DeliveryLocation: address.Line1 + ", " + address.City,
			Total:            total,
			Status:           models.OrderPending,
			PaymentStatus:    "PENDING",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = int(order.ID)
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		order.OrderItems = orderItems

		return ClearCart(tx, int(cart.ID))
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
