package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is the persisted record of a committed checkout. All currency
// amounts are minor units. Reference doubles as the idempotency key for the
// commit step.
type Order struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID   `json:"user_id" bson:"user_id" validate:"required"`
	Reference        string               `json:"reference" bson:"reference" validate:"required"`
	Lines            []CartLine           `json:"lines" bson:"lines" validate:"required,min=1"`
	Subtotal         int64                `json:"subtotal" bson:"subtotal"`
	DeliveryFee      int64                `json:"delivery_fee" bson:"delivery_fee"`
	OffsetFee        int64                `json:"offset_fee" bson:"offset_fee"`
	OffsetSelected   bool                 `json:"offset_selected" bson:"offset_selected"`
	DiscountTotal    int64                `json:"discount_total" bson:"discount_total"`
	AppliedCreditIDs []primitive.ObjectID `json:"applied_credit_ids" bson:"applied_credit_ids"`
	AppliedPoints    int64                `json:"applied_points" bson:"applied_points"`
	PointsEarned     int64                `json:"points_earned" bson:"points_earned"`
	Total            int64                `json:"total" bson:"total"`
	TotalCO2         float64              `json:"total_co2" bson:"total_co2"` // kg
	Currency         string               `json:"currency" bson:"currency" default:"USD"`
	PaymentID        string               `json:"payment_id" bson:"payment_id"`
	Status           OrderStatus          `json:"status" bson:"status" default:"pending"`
	PaidAt           *time.Time           `json:"paid_at" bson:"paid_at"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" bson:"updated_at"`
}
