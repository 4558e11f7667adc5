package services

import (
	"strings"
	"testing"

	"github.com/sokoline/sokoline-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func approvedVendor(t *testing.T, db *gorm.DB, email string) *models.Vendor {
	t.Helper()
	user := createTestUser(t, db, email)
	vendor, err := ApplyAsVendor(db, int(user.ID), "Duka la "+email, "", "0711000000")
	require.NoError(t, err)
	vendor, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorApproved)
	require.NoError(t, err)
	return vendor
}

// recordSale writes an order with one line attributed to the vendor.
func recordSale(t *testing.T, db *gorm.DB, vendorID int, amount float64, status string) {
	t.Helper()
	order := models.Order{UserID: 1, Total: amount, Status: status}
	require.NoError(t, db.Create(&order).Error)
	item := models.OrderItem{
		OrderID:  int(order.ID),
		VendorID: vendorID,
		Name:     "sold item",
		Price:    amount,
		Quantity: 1,
	}
	require.NoError(t, db.Create(&item).Error)
}

func TestApplyAsVendor(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "apply@example.com")

	vendor, err := ApplyAsVendor(db, int(user.ID), "Mama Njeri Electronics", "TVs and radios", "0711000000")
	require.NoError(t, err)
	assert.Equal(t, models.VendorPending, vendor.Status)

	_, err = ApplyAsVendor(db, int(user.ID), "Second Shop", "", "")
	assert.ErrorIs(t, err, ErrVendorExists)
}

func TestVendorStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "status@example.com")
	vendor, err := ApplyAsVendor(db, int(user.ID), "Transitions Ltd", "", "")
	require.NoError(t, err)

	_, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorSuspended)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	vendor, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorApproved)
	require.NoError(t, err)
	assert.Equal(t, models.VendorApproved, vendor.Status)

	// Approval promotes the user to the vendor role.
	var promoted models.User
	require.NoError(t, db.First(&promoted, user.ID).Error)
	assert.Equal(t, models.RoleVendor, promoted.Role)

	vendor, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorSuspended)
	require.NoError(t, err)
	vendor, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorApproved)
	require.NoError(t, err)

	_, err = TransitionVendorStatus(db, int(vendor.ID), models.VendorRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCommissionSplit(t *testing.T) {
	db := newTestDB(t)
	vendor := approvedVendor(t, db, "split@example.com")

	recordSale(t, db, int(vendor.ID), 600, models.OrderProcessing)
	recordSale(t, db, int(vendor.ID), 400, models.OrderDelivered)

	stats, err := GetVendorStats(db, int(vendor.ID))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stats.Revenue)
	assert.Equal(t, 150.0, stats.Commission)
	assert.Equal(t, 850.0, stats.NetEarnings)
	assert.Equal(t, 850.0, stats.AvailableBalance)
	assert.Equal(t, int64(2), stats.OrderItemCount)
}

func TestCancelledOrdersExcludedFromRevenue(t *testing.T) {
	db := newTestDB(t)
	vendor := approvedVendor(t, db, "cancelled@example.com")

	recordSale(t, db, int(vendor.ID), 500, models.OrderProcessing)
	recordSale(t, db, int(vendor.ID), 900, models.OrderCancelled)

	stats, err := GetVendorStats(db, int(vendor.ID))
	require.NoError(t, err)
	assert.Equal(t, 500.0, stats.Revenue)
	assert.Equal(t, int64(1), stats.OrderItemCount)
}

func TestAvailableBalanceSubtractsPayouts(t *testing.T) {
	db := newTestDB(t)
	vendor := approvedVendor(t, db, "balance@example.com")
	recordSale(t, db, int(vendor.ID), 1000, models.OrderDelivered)

	// Net earnings 850. One completed and one still-pending payout
	// both count against the balance.
	require.NoError(t, db.Create(&models.Payout{
		VendorID: int(vendor.ID), Amount: 100, Reference: "PO-a", Status: models.PayoutCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Payout{
		VendorID: int(vendor.ID), Amount: 50, Reference: "PO-b", Status: models.PayoutPending,
	}).Error)

	stats, err := GetVendorStats(db, int(vendor.ID))
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.PaidOut)
	assert.Equal(t, 50.0, stats.PendingPayouts)
	assert.Equal(t, 700.0, stats.AvailableBalance)
}

func TestRequestPayout(t *testing.T) {
	db := newTestDB(t)
	vendor := approvedVendor(t, db, "payout@example.com")
	recordSale(t, db, int(vendor.ID), 1000, models.OrderDelivered)

	_, err := RequestPayout(db, int(vendor.ID), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = RequestPayout(db, int(vendor.ID), 851)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	payout, err := RequestPayout(db, int(vendor.ID), 500)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutPending, payout.Status)
	assert.True(t, strings.HasPrefix(payout.Reference, "PO-"))

	// The pending payout reduces what can be requested next.
	_, err = RequestPayout(db, int(vendor.ID), 400)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = RequestPayout(db, int(vendor.ID), 350)
	require.NoError(t, err)
}

func TestRequestPayoutRequiresApproval(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "unapproved@example.com")
	vendor, err := ApplyAsVendor(db, int(user.ID), "Pending Shop", "", "")
	require.NoError(t, err)

	_, err = RequestPayout(db, int(vendor.ID), 10)
	assert.ErrorIs(t, err, ErrVendorNotApproved)
}

func TestPayoutStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	vendor := approvedVendor(t, db, "paystatus@example.com")
	recordSale(t, db, int(vendor.ID), 1000, models.OrderDelivered)

	payout, err := RequestPayout(db, int(vendor.ID), 100)
	require.NoError(t, err)

	_, err = TransitionPayoutStatus(db, int(payout.ID), models.PayoutCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	payout, err = TransitionPayoutStatus(db, int(payout.ID), models.PayoutProcessing)
	require.NoError(t, err)
	payout, err = TransitionPayoutStatus(db, int(payout.ID), models.PayoutCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutCompleted, payout.Status)

	_, err = TransitionPayoutStatus(db, int(payout.ID), models.PayoutFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
