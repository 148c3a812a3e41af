package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoyaltyAccount tracks a user's EcoCredits balance. The tier fields are
// derived from the balance and recomputed on every mutation; they are stored
// only so reads do not need the tier table.
type LoyaltyAccount struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	PointBalance     int64              `json:"point_balance" bson:"point_balance" default:"0"`
	CurrentTier      string             `json:"current_tier" bson:"current_tier"`
	NextTier         string             `json:"next_tier" bson:"next_tier"`
	ProgressToNext   float64            `json:"progress_to_next" bson:"progress_to_next"`
	LifetimeEarned   int64              `json:"lifetime_earned" bson:"lifetime_earned"`
	LifetimeRedeemed int64              `json:"lifetime_redeemed" bson:"lifetime_redeemed"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
