package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pesapalBaseURL = "https://pay.pesapal.com/v3"

// PaymentSession is the hosted-payment-page handoff returned to the
// client after checkout.
type PaymentSession struct {
	RedirectURL string `json:"redirectUrl"`
	TrackingID  string `json:"trackingId"`
}

func GetPesapalAccessToken() (string, error) {
	consumerKey := os.Getenv("PESAPAL_CONSUMER_KEY")
	consumerSecret := os.Getenv("PESAPAL_CONSUMER_SECRET")

	if consumerKey == "" || consumerSecret == "" {
		return "", fmt.Errorf("pesapal consumer credentials are not set")
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"consumer_key":    consumerKey,
			"consumer_secret": consumerSecret,
		}).
		Post(pesapalBaseURL + "/api/Auth/RequestToken")

	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("pesapal token request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var response map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	token, ok := response["token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("token not found in response: %v", response)
	}
	return token, nil
}

// CreatePaymentSession submits the order to Pesapal and returns the
// redirect URL for the hosted payment page. The tracking id is saved
// on the order so the IPN callback can find it later.
func CreatePaymentSession(db *gorm.DB, order *models.Order) (*PaymentSession, error) {
	token, err := GetPesapalAccessToken()
	if err != nil {
		return nil, err
	}

	notificationID := os.Getenv("PESAPAL_NOTIFICATION_ID")
	if notificationID == "" {
		return nil, fmt.Errorf("PESAPAL_NOTIFICATION_ID is not set")
	}

	payload := map[string]any{
		"id":              fmt.Sprintf("ORDER-%d", order.ID),
		"currency":        "KES",
		"amount":          order.Total,
		"description":     fmt.Sprintf("Payment for order #%d", order.ID),
		"callback_url":    os.Getenv("PAYMENT_CALLBACK_URL"),
		"notification_id": notificationID,
		"billing_address": map[string]any{
			"email_address": order.Email,
			"phone_number":  order.Phone,
			"country_code":  "KE",
			"first_name":    order.FirstName,
			"last_name":     order.LastName,
			"city":          order.DeliveryLocation,
			"line_1":        order.DeliveryLocation,
		},
	}

	resp, err := resty.New().SetTimeout(30 * time.Second).
		R().
		SetHeaders(map[string]string{
			"Authorization": "Bearer " + token,
			"Accept":        "application/json",
			"Content-Type":  "application/json",
		}).
		SetBody(payload).
		Post(pesapalBaseURL + "/api/Transactions/SubmitOrderRequest")

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("pesapal order request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var pesapalResp map[string]any
	if err := json.Unmarshal(resp.Body(), &pesapalResp); err != nil {
		return nil, fmt.Errorf("invalid response from payment gateway: %w", err)
	}

	redirectURL, rOK := pesapalResp["redirect_url"].(string)
	trackingID, tOK := pesapalResp["order_tracking_id"].(string)
	if !rOK || !tOK || redirectURL == "" || trackingID == "" {
		return nil, fmt.Errorf("incomplete response from payment gateway")
	}

	if err := db.Model(order).Updates(map[string]any{
		"pesapal_tracking_id": trackingID,
		"payment_status":      "PENDING",
	}).Error; err != nil {
		logger.Error("order created but tracking id not saved", err,
			zap.Uint("orderId", order.ID), zap.String("trackingId", trackingID))
	}

	return &PaymentSession{RedirectURL: redirectURL, TrackingID: trackingID}, nil
}

// QueryPaymentStatus asks Pesapal for the payment status description
// of a transaction.
func QueryPaymentStatus(trackingID string) (string, error) {
	token, err := GetPesapalAccessToken()
	if err != nil {
		return "", err
	}

	resp, err := resty.New().R().
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Accept", "application/json").
		Get(pesapalBaseURL + "/api/Transactions/GetTransactionStatus?orderTrackingId=" + trackingID)

	if err != nil {
		return "", err
	}

	var statusResp map[string]any
	if err := json.Unmarshal(resp.Body(), &statusResp); err != nil {
		return "", fmt.Errorf("invalid response from pesapal: %w", err)
	}

	if errObj, exists := statusResp["error"]; exists && errObj != nil {
		if errMap, ok := errObj.(map[string]interface{}); ok {
			if errMap["code"] != nil || errMap["message"] != nil || errMap["error_type"] != nil {
				return "", fmt.Errorf("error in transaction response: %v", errMap)
			}
		}
	}

	return fmt.Sprint(statusResp["payment_status_description"]), nil
}

// ConfirmPayment records a payment status reported for a tracking id.
// A completed payment moves the order into PROCESSING, credits
// loyalty points for the purchase and completes any open referral for
// the buyer. Gateways redeliver notifications, so a payment that has
// already completed is final and later reports are no-ops.
func ConfirmPayment(db *gorm.DB, trackingID, paymentStatus string) (*models.Order, error) {
	var order models.Order
	if err := db.Where("pesapal_tracking_id = ?", trackingID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.PaymentStatus == "Completed" {
		return &order, nil
	}

	if err := db.Model(&order).Update("payment_status", paymentStatus).Error; err != nil {
		return nil, err
	}
	order.PaymentStatus = paymentStatus

	if paymentStatus != "Completed" {
		return &order, nil
	}

	if order.Status == models.OrderPending {
		updated, err := TransitionOrderStatus(db, int(order.ID), models.OrderProcessing)
		if err != nil {
			return nil, err
		}
		order = *updated
	}

	points := int(order.Total / pointsPerUnit)
	if points > 0 {
		note := fmt.Sprintf("Purchase reward for order #%d", order.ID)
		if _, err := EarnPoints(db, order.UserID, points, note); err != nil {
			logger.Error("failed to credit purchase points", err, zap.Uint("orderId", order.ID))
		}
	}

	if err := CompleteReferral(db, order.UserID); err != nil {
		logger.Error("failed to complete referral", err, zap.Int("userId", order.UserID))
	}

	return &order, nil
}
