package payment

import (
	"context"
)

// Provider abstracts the payment gateway used to capture the checkout
// total. Amounts are in currency minor units throughout.
type Provider interface {
	ProcessPayment(ctx context.Context, request *PaymentRequest) (*PaymentResponse, error)
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type PaymentRequest struct {
	PaymentMethodID string            `json:"payment_method_id"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Description     string            `json:"description"`
	CustomerID      string            `json:"customer_id"`
	Reference       string            `json:"reference"`
	Metadata        map[string]string `json:"metadata"`
}

type PaymentResponse struct {
	TransactionID string            `json:"transaction_id"`
	Status        string            `json:"status"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	CreatedAt     int64             `json:"created_at"`
	Metadata      map[string]string `json:"metadata"`
}

type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
}

type RefundResponse struct {
	RefundID  string `json:"refund_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CreatedAt int64  `json:"created_at"`
}

type WebhookEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt int64                  `json:"created_at"`
}
