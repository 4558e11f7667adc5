package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Sokoline API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

PRODUCT
- GET "/product" - List products (search, category, pagination)
- GET "/product/:id" - Get product by ID or slug
- GET "/product/:productId/reviews" - List product reviews
- POST "/product" - Create product (vendor)
- PATCH "/product/:id" - Update product (vendor)
- POST "/product-specs" - Add product specifications (vendor)
- POST "/product-images" - Upload product images (vendor)

CART
- GET "/cart" - Get my cart
- POST "/cart/sync" - Merge a locally held cart into mine
- POST "/cart/items" - Add item to cart
- PATCH "/cart/items/:itemId" - Update item quantity
- DELETE "/cart/items/:itemId" - Remove item
- GET "/cart/validate" - Report stale or oversold lines

ORDER
- POST "/order/checkout" - Create order and start payment
- GET "/order" - My orders
- GET "/order/:orderId" - Get order
- POST "/order/:orderId/cancel" - Cancel order
- POST "/payment/ipn" - Payment processor callback

VENDOR
- POST "/vendor/apply" - Apply to become a vendor
- GET "/vendor/stats" - Revenue, commission and balance
- GET "/vendor/orders" - My sold order lines
- GET "/vendor/products" - My products
- POST "/vendor/payouts" - Request a payout
- GET "/vendor/payouts" - My payouts

LOYALTY
- GET "/loyalty/account" - Points balance
- GET "/loyalty/transactions" - Points ledger
- POST "/loyalty/redeem" - Redeem points
- GET "/referrals/code" - My referral code
- POST "/referrals/apply" - Apply a referral code`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
