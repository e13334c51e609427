package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	storeRepo "pestguard/database/repository/store"
	"pestguard/models"
	"pestguard/utils"
)

// ErrEmptyCart rejects checkout with nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

// OversellError reports a checkout line exceeding remaining stock. The
// checkout stops at the first such line; earlier lines are restocked.
type OversellError struct {
	ProductID string
	Requested int
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("not enough stock of product %s for quantity %d", e.ProductID, e.Requested)
}

// StoreService owns the product store and per-user carts.
type StoreService interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, userID, itemID string) error
	ListCart(ctx context.Context, userID string) ([]models.CartItem, error)
	Checkout(ctx context.Context, userID, deliveryAddress, phone string) ([]models.CartItem, error)
	ListOrders(ctx context.Context, userID string) ([]models.CartItem, error)
}

// DefaultStoreService implements StoreService.
type DefaultStoreService struct {
	Repo storeRepo.StoreRepository
	Now  func() time.Time
}

func (s *DefaultStoreService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultStoreService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, category)
}

func (s *DefaultStoreService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *DefaultStoreService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *DefaultStoreService) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.Repo.UpdateProduct(ctx, p)
}

func (s *DefaultStoreService) DeleteProduct(ctx context.Context, id string) error {
	return s.Repo.DeleteProduct(ctx, id)
}

// AddToCart merges the quantity into any existing active line for the same
// product.
func (s *DefaultStoreService) AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    models.CartStatusActive,
		UpdatedAt: s.now(),
	}
	if err := s.Repo.UpsertCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return item, nil
}

func (s *DefaultStoreService) UpdateCartItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	item, err := s.ownedActiveItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	item.UpdatedAt = s.now()
	return s.Repo.UpdateCartItem(ctx, item)
}

func (s *DefaultStoreService) RemoveCartItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.ownedActiveItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.Repo.DeleteCartItem(ctx, itemID)
}

func (s *DefaultStoreService) ListCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.Repo.ListCart(ctx, userID, models.CartStatusActive)
}

func (s *DefaultStoreService) ListOrders(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.Repo.ListCart(ctx, userID, models.CartStatusOrdered)
}

// Checkout turns every active cart line into an order, decrementing stock
// one line at a time. An oversold line restocks the lines already taken and
// fails the whole checkout.
func (s *DefaultStoreService) Checkout(ctx context.Context, userID, deliveryAddress, phone string) ([]models.CartItem, error) {
	items, err := s.Repo.ListCart(ctx, userID, models.CartStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	taken := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if err := s.Repo.DecrementInventory(ctx, item.ProductID, item.Quantity); err != nil {
			s.restock(ctx, taken)
			if err == storeRepo.ErrInsufficientStock {
				return nil, &OversellError{ProductID: item.ProductID, Requested: item.Quantity}
			}
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}
		taken = append(taken, item)
	}

	now := s.now()
	ordered := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		item.Status = models.CartStatusOrdered
		item.DeliveryAddress = deliveryAddress
		item.Phone = phone
		item.OrderDate = now
		item.UpdatedAt = now
		if err := s.Repo.UpdateCartItem(ctx, &item); err != nil {
			return nil, fmt.Errorf("failed to finalize order line %s: %w", item.ID, err)
		}
		ordered = append(ordered, item)
	}

	utils.GetLogger().Info("checkout completed",
		zap.String("userID", userID), zap.Int("lines", len(ordered)))
	return ordered, nil
}

func (s *DefaultStoreService) restock(ctx context.Context, taken []models.CartItem) {
	for _, item := range taken {
		if err := s.Repo.DecrementInventory(ctx, item.ProductID, -item.Quantity); err != nil {
			utils.GetLogger().Error("failed to restock after aborted checkout",
				zap.String("productID", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func (s *DefaultStoreService) ownedActiveItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID || item.Status != models.CartStatusActive {
		return nil, storeRepo.ErrCartItemNotFound
	}
	return item, nil
}
