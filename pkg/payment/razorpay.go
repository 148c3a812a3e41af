package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) ProcessPayment(ctx context.Context, request *PaymentRequest) (*PaymentResponse, error) {
	orderData := map[string]interface{}{
		"amount":   request.Amount, // already minor units (paise)
		"currency": request.Currency,
		"receipt":  request.Reference,
		"notes":    request.Metadata,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Razorpay authorizes on the frontend; the created order is captured
	// later via webhook.
	return &PaymentResponse{
		TransactionID: order["id"].(string),
		Status:        "created",
		Amount:        request.Amount,
		Currency:      request.Currency,
		CreatedAt:     time.Now().Unix(),
	}, nil
}

func (r *RazorpayProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	refundData := map[string]interface{}{
		"amount": request.Amount,
		"notes": map[string]interface{}{
			"reason": request.Reason,
		},
	}

	refund, err := r.client.Payment.Refund(request.TransactionID, int(request.Amount), refundData, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &RefundResponse{
		RefundID:  refund["id"].(string),
		Status:    refund["status"].(string),
		Amount:    request.Amount,
		Currency:  request.Currency,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func (r *RazorpayProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	expectedSignature := r.generateSignature(string(payload))
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, fmt.Errorf("invalid webhook signature")
	}

	var event map[string]interface{}
	err := json.Unmarshal(payload, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	eventType, _ := event["event"].(string)
	data, _ := event["payload"].(map[string]interface{})

	return &WebhookEvent{
		EventType: eventType,
		Data:      data,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func (r *RazorpayProvider) generateSignature(payload string) string {
	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
