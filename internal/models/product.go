package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item. Price is in currency minor units; CO2PerUnit is
// the estimated footprint in kg used for the carbon-offset fee display.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       int64              `json:"price" bson:"price" validate:"gte=0"`
	Currency    string             `json:"currency" bson:"currency" default:"USD" validate:"omitempty,currency_code"`
	CO2PerUnit  float64            `json:"co2_per_unit" bson:"co2_per_unit"` // kg
	EcoScore    int                `json:"eco_score" bson:"eco_score" validate:"gte=0,lte=100"`
	ImageURL    string             `json:"image_url" bson:"image_url"`
	Stock       int64              `json:"stock" bson:"stock" validate:"gte=0"`
	IsActive    bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
