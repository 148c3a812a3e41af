package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
	ListingStatusClosed ListingStatus = "closed"
)

// Listing is a secondhand marketplace entry. Selling an item earns the
// seller a fixed EcoCredits bonus when the sale completes.
type Listing struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SellerID    primitive.ObjectID  `json:"seller_id" bson:"seller_id" validate:"required"`
	Title       string              `json:"title" bson:"title" validate:"required"`
	Description string              `json:"description" bson:"description"`
	Category    string              `json:"category" bson:"category"`
	Condition   string              `json:"condition" bson:"condition" validate:"required,oneof=new like_new good fair"`
	Price       int64               `json:"price" bson:"price" validate:"gte=0"`
	ImageURL    string              `json:"image_url" bson:"image_url"`
	Status      ListingStatus       `json:"status" bson:"status" default:"active"`
	BuyerID     *primitive.ObjectID `json:"buyer_id" bson:"buyer_id"`
	SoldAt      *time.Time          `json:"sold_at" bson:"sold_at"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}
