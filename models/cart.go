package models

import "time"

// Cart item statuses.
const (
	CartStatusActive  = "active"
	CartStatusOrdered = "ordered"
)

// CartItem is one product line in a user's cart, becoming an order line at
// checkout.
type CartItem struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	ProductID       string    `bson:"product_id" json:"product_id"`
	Quantity        int       `bson:"quantity" json:"quantity"`
	Status          string    `bson:"status" json:"status"`
	DeliveryAddress string    `bson:"delivery_address,omitempty" json:"delivery_address,omitempty"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	OrderDate       time.Time `bson:"order_date,omitempty" json:"order_date,omitempty"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
