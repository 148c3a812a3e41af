package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine snapshots the product price and carbon weight at the time the
// line was added, so a quote stays reproducible if the catalog changes.
type CartLine struct {
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id" validate:"required"`
	Name       string             `json:"name" bson:"name"`
	UnitPrice  int64              `json:"unit_price" bson:"unit_price" validate:"gte=0"`
	Quantity   int64              `json:"quantity" bson:"quantity" validate:"required,gte=1"`
	CO2PerUnit float64            `json:"co2_per_unit" bson:"co2_per_unit"` // kg
}

type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Lines     []CartLine         `json:"lines" bson:"lines"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
