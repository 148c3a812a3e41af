package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreditStatus string

const (
	CreditStatusAvailable CreditStatus = "available"
	CreditStatusUsed      CreditStatus = "used"
	CreditStatusExpired   CreditStatus = "expired"
	CreditStatusRevoked   CreditStatus = "revoked"
)

// FlatCredit is a one-time, fixed-value discount instrument gated by a
// minimum order value. Value and MinOrderValue are in currency minor units.
type FlatCredit struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	Code          string              `json:"code" bson:"code" validate:"required"`
	Value         int64               `json:"value" bson:"value" validate:"required,gt=0"`
	MinOrderValue int64               `json:"min_order_value" bson:"min_order_value"`
	Status        CreditStatus        `json:"status" bson:"status" default:"available"`
	Reason        string              `json:"reason" bson:"reason"`
	UsedOrderID   *primitive.ObjectID `json:"used_order_id" bson:"used_order_id"`
	IssuedAt      time.Time           `json:"issued_at" bson:"issued_at"`
	UsedAt        *time.Time          `json:"used_at" bson:"used_at"`
	ExpiresAt     *time.Time          `json:"expires_at" bson:"expires_at"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}
