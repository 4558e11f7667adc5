package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not available")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrNotCartOwner     = errors.New("cart item does not belong to this user")

	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInsufficientInventory = errors.New("insufficient inventory")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrAddressNotFound   = errors.New("address not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderOwner     = errors.New("order does not belong to this user")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrVendorNotFound      = errors.New("vendor not found")
	ErrVendorExists        = errors.New("vendor profile already exists")
	ErrVendorNotApproved   = errors.New("vendor is not approved")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("amount exceeds available balance")

	ErrInvalidPoints      = errors.New("points must be greater than zero")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	ErrReferralNotFound   = errors.New("referral code not found")
	ErrSelfReferral       = errors.New("cannot use your own referral code")
	ErrAlreadyReferred    = errors.New("user has already been referred")
)
