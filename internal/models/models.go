package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name" validate:"required"`
	Description   string             `bson:"description" json:"description" validate:"required"`
	OriginalPrice float64            `bson:"originalPrice" json:"originalPrice" validate:"gt=0"`
	SalePrice     float64            `bson:"salePrice" json:"salePrice" validate:"gt=0"`
	Category      string             `bson:"category" json:"category" validate:"required"`
	Sizes         []string           `bson:"sizes" json:"sizes"`
	Colors        []string           `bson:"colors" json:"colors"`
	Images        []string           `bson:"images" json:"images" validate:"min=1,dive,required"`
	IsAvailable   bool               `bson:"isAvailable" json:"isAvailable"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt    time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"-"`
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CustomerName    string             `bson:"customerName" json:"customerName" validate:"required"`
	CustomerPhone   string             `bson:"customerPhone" json:"customerPhone" validate:"required"`
	AlternatePhone  string             `bson:"alternatePhone" json:"alternatePhone"`
	CustomerAddress string             `bson:"customerAddress" json:"customerAddress" validate:"required"`
	Items           []OrderItem        `bson:"items" json:"items" validate:"min=1,dive"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount" validate:"gt=0"`
	Status          OrderStatus        `bson:"status" json:"status" validate:"oneof=pending confirmed shipped delivered cancelled"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem snapshots the product as it was when the order was placed.
// ProductDetails is filled in on single-order reads when Product still
// resolves to a stored product.
type OrderItem struct {
	Product        string   `bson:"product" json:"product" validate:"required"`
	ProductName    string   `bson:"productName" json:"productName"`
	Quantity       int      `bson:"quantity" json:"quantity" validate:"gte=1"`
	Size           string   `bson:"size" json:"size"`
	Color          string   `bson:"color" json:"color"`
	Price          float64  `bson:"price" json:"price" validate:"gte=0"`
	Image          string   `bson:"image,omitempty" json:"image,omitempty"`
	ProductDetails *Product `bson:"-" json:"productDetails,omitempty"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRecord is the stored form written by the category backfill.
type CategoryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
