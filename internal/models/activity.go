package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityOrderPlaced    ActivityType = "order_placed"
	ActivityPointsEarned   ActivityType = "points_earned"
	ActivityPointsRedeemed ActivityType = "points_redeemed"
	ActivityCreditIssued   ActivityType = "credit_issued"
	ActivityCreditUsed     ActivityType = "credit_used"
	ActivityListingSold    ActivityType = "listing_sold"
	ActivityTierChanged    ActivityType = "tier_changed"
)

// Activity is an append-only feed entry backing the transaction history and
// the live activity stream.
type Activity struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Type        ActivityType       `json:"type" bson:"type" validate:"required"`
	Points      int64              `json:"points" bson:"points"`
	Amount      int64              `json:"amount" bson:"amount"` // minor units
	Reference   string             `json:"reference" bson:"reference"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
