package services

import (
	"fmt"
	"testing"

	"github.com/sokoline/sokoline-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func cartItemFor(t *testing.T, db *gorm.DB, userID, productID int) *models.CartItem {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&cart).Error)
	var item models.CartItem
	require.NoError(t, db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error)
	return &item
}

func TestSyncCartMergePolicy(t *testing.T) {
	tests := []struct {
		existing  int
		local     int
		inventory int
		want      int
	}{
		{existing: 3, local: 2, inventory: 5, want: 3},
		{existing: 2, local: 4, inventory: 5, want: 4},
		{existing: 2, local: 9, inventory: 5, want: 5},
		{existing: 7, local: 1, inventory: 5, want: 5},
		{existing: 5, local: 5, inventory: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("E%d_L%d_I%d", tt.existing, tt.local, tt.inventory), func(t *testing.T) {
			db := newTestDB(t)
			user := createTestUser(t, db, "merge@example.com")
			product := createTestProduct(t, db, "phone", 100, tt.inventory, true)

			_, err := AddToCart(db, int(user.ID), int(product.ID), 1)
			require.NoError(t, err)
			item := cartItemFor(t, db, int(user.ID), int(product.ID))
			item.Quantity = tt.existing
			require.NoError(t, db.Save(item).Error)

			cart, skipped, err := SyncCart(db, int(user.ID), []CartLine{
				{ProductID: int(product.ID), Quantity: tt.local},
			})
			require.NoError(t, err)
			assert.Empty(t, skipped)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, tt.want, cart.Items[0].Quantity)
		})
	}
}

func TestSyncCartNewLineClampedToInventory(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "clamp@example.com")
	product := createTestProduct(t, db, "radio", 50, 2, true)

	cart, skipped, err := SyncCart(db, int(user.ID), []CartLine{
		{ProductID: int(product.ID), Quantity: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSyncCartNewLineFloor(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "floor@example.com")
	product := createTestProduct(t, db, "soldout", 50, 0, true)

	cart, skipped, err := SyncCart(db, int(user.ID), []CartLine{
		{ProductID: int(product.ID), Quantity: 4},
	})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	require.Len(t, skipped, 1)
	assert.Equal(t, int(product.ID), skipped[0].ProductID)
	assert.Equal(t, "out of stock", skipped[0].Reason)
}

func TestSyncCartSkipsMissingAndInactive(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skip@example.com")
	inactive := createTestProduct(t, db, "retired", 80, 10, false)

	cart, skipped, err := SyncCart(db, int(user.ID), []CartLine{
		{ProductID: 9999, Quantity: 2},
		{ProductID: int(inactive.ID), Quantity: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	require.Len(t, skipped, 2)
	assert.Equal(t, "product not found", skipped[0].Reason)
	assert.Equal(t, "product not available", skipped[1].Reason)
}

func TestSyncCartPriceAuthority(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "price@example.com")
	product := createTestProduct(t, db, "watch", 20, 5, true)

	_, err := AddToCart(db, int(user.ID), int(product.ID), 2)
	require.NoError(t, err)

	// Price changes after the line was written; the next sync must
	// refresh the snapshot.
	require.NoError(t, db.Model(product).Update("price", 35.0).Error)

	cart, _, err := SyncCart(db, int(user.ID), []CartLine{
		{ProductID: int(product.ID), Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 35.0, cart.Items[0].ProductPrice)
}

func TestSyncCartEndToEnd(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "e2e@example.com")
	product := createTestProduct(t, db, "p1", 20, 5, true)

	cart, skipped, err := SyncCart(db, int(user.ID), []CartLine{
		{ProductID: int(product.ID), Quantity: 3},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 20.0, cart.Items[0].ProductPrice)

	// Repeating the sync with a smaller local quantity keeps the
	// larger count, it does not add them up.
	cart, _, err = SyncCart(db, int(user.ID), []CartLine{
		{ProductID: int(product.ID), Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddToCartValidation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "add@example.com")
	product := createTestProduct(t, db, "tv", 300, 5, true)
	inactive := createTestProduct(t, db, "old-tv", 100, 5, false)

	_, err := AddToCart(db, int(user.ID), 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = AddToCart(db, int(user.ID), int(inactive.ID), 1)
	assert.ErrorIs(t, err, ErrProductInactive)

	_, err = AddToCart(db, int(user.ID), int(product.ID), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = AddToCart(db, int(user.ID), int(product.ID), 6)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	item, err := AddToCart(db, int(user.ID), int(product.ID), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 300.0, item.ProductPrice)
}

func TestAddToCartNewTotalAgainstInventory(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "total@example.com")
	product := createTestProduct(t, db, "mixer", 45, 5, true)

	_, err := AddToCart(db, int(user.ID), int(product.ID), 3)
	require.NoError(t, err)

	// 3 already in the cart, adding 3 more would exceed inventory 5.
	_, err = AddToCart(db, int(user.ID), int(product.ID), 3)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	item := cartItemFor(t, db, int(user.ID), int(product.ID))
	assert.Equal(t, 3, item.Quantity)

	item2, err := AddToCart(db, int(user.ID), int(product.ID), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, item2.Quantity)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "update@example.com")
	product := createTestProduct(t, db, "kettle", 25, 5, true)

	item, err := AddToCart(db, int(user.ID), int(product.ID), 2)
	require.NoError(t, err)

	_, err = UpdateCartItemQuantity(db, int(user.ID), int(item.ID), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = UpdateCartItemQuantity(db, int(user.ID), int(item.ID), 9)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	updated, err := UpdateCartItemQuantity(db, int(user.ID), int(item.ID), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = UpdateCartItemQuantity(db, int(user.ID), 9999, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartItemOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	product := createTestProduct(t, db, "lamp", 15, 10, true)

	item, err := AddToCart(db, int(owner.ID), int(product.ID), 2)
	require.NoError(t, err)

	_, err = UpdateCartItemQuantity(db, int(other.ID), int(item.ID), 5)
	assert.ErrorIs(t, err, ErrNotCartOwner)

	err = RemoveFromCart(db, int(other.ID), int(item.ID))
	assert.ErrorIs(t, err, ErrNotCartOwner)

	// No mutation happened.
	var unchanged models.CartItem
	require.NoError(t, db.First(&unchanged, item.ID).Error)
	assert.Equal(t, 2, unchanged.Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "remove@example.com")
	product := createTestProduct(t, db, "chair", 60, 10, true)

	item, err := AddToCart(db, int(user.ID), int(product.ID), 1)
	require.NoError(t, err)

	require.NoError(t, RemoveFromCart(db, int(user.ID), int(item.ID)))

	cart, err := GetCart(db, int(user.ID))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	err = RemoveFromCart(db, int(user.ID), int(item.ID))
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestValidateCart(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "validate@example.com")
	good := createTestProduct(t, db, "good", 10, 10, true)
	fading := createTestProduct(t, db, "fading", 10, 10, true)
	shrinking := createTestProduct(t, db, "shrinking", 10, 10, true)

	for _, p := range []*models.Product{good, fading, shrinking} {
		_, err := AddToCart(db, int(user.ID), int(p.ID), 5)
		require.NoError(t, err)
	}

	// Products drift after the lines were written.
	require.NoError(t, db.Model(fading).Update("active", false).Error)
	require.NoError(t, db.Model(shrinking).Update("inventory", 2).Error)

	validation, err := ValidateCart(db, int(user.ID))
	require.NoError(t, err)
	assert.False(t, validation.Valid)
	require.Len(t, validation.Issues, 2)

	// Detection must not mutate anything: a second run reports the
	// same issues and quantities are untouched.
	again, err := ValidateCart(db, int(user.ID))
	require.NoError(t, err)
	assert.Equal(t, validation, again)

	item := cartItemFor(t, db, int(user.ID), int(shrinking.ID))
	assert.Equal(t, 5, item.Quantity)
}

func TestValidateCartFlagsSoldOutLine(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "zero@example.com")
	product := createTestProduct(t, db, "hotcake", 10, 3, true)

	_, err := AddToCart(db, int(user.ID), int(product.ID), 2)
	require.NoError(t, err)

	// Product sells out, then a sync clamps the line to zero.
	require.NoError(t, db.Model(product).Update("inventory", 0).Error)
	_, _, err = SyncCart(db, int(user.ID), []CartLine{{ProductID: int(product.ID), Quantity: 2}})
	require.NoError(t, err)

	item := cartItemFor(t, db, int(user.ID), int(product.ID))
	require.Equal(t, 0, item.Quantity)

	validation, err := ValidateCart(db, int(user.ID))
	require.NoError(t, err)
	assert.False(t, validation.Valid)
	require.Len(t, validation.Issues, 1)
	assert.Equal(t, "product is out of stock", validation.Issues[0].Reason)
}

func TestValidateCartCleanCart(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "clean@example.com")
	product := createTestProduct(t, db, "fine", 10, 10, true)

	_, err := AddToCart(db, int(user.ID), int(product.ID), 3)
	require.NoError(t, err)

	validation, err := ValidateCart(db, int(user.ID))
	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Empty(t, validation.Issues)
}

func TestGetCartCreatesLazily(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lazy@example.com")

	cart, err := GetCart(db, int(user.ID))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	again, err := GetCart(db, int(user.ID))
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}
