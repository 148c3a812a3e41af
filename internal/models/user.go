package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email" validate:"required,email"`
	Password   string             `json:"-" bson:"password" validate:"required"`
	FirstName  string             `json:"first_name" bson:"first_name" validate:"required"`
	LastName   string             `json:"last_name" bson:"last_name"`
	UserType   UserType           `json:"user_type" bson:"user_type" default:"customer"`
	AvatarURL  string             `json:"avatar_url" bson:"avatar_url"`
	IsActive   bool               `json:"is_active" bson:"is_active" default:"true"`
	LastLogin  *time.Time         `json:"last_login" bson:"last_login"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
