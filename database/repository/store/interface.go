package storeRepo

import (
	"context"
	"errors"

	"pestguard/models"
)

var (
	// ErrProductNotFound is returned when no product matches the given id.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartItemNotFound is returned when no cart item matches the given id.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrInsufficientStock is returned when a conditional inventory
	// decrement finds fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StoreRepository defines persistence operations for the product store and
// per-user carts.
type StoreRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// DecrementInventory atomically subtracts qty, failing with
	// ErrInsufficientStock when fewer units remain.
	DecrementInventory(ctx context.Context, productID string, qty int) error

	UpsertCartItem(ctx context.Context, item *models.CartItem) error
	GetCartItem(ctx context.Context, id string) (*models.CartItem, error)
	ListCart(ctx context.Context, userID, status string) ([]models.CartItem, error)
	UpdateCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id string) error
}
