package storeRepo

import (
	"context"
	"fmt"
	"time"

	"pestguard/database"
	"pestguard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStoreRepo implements StoreRepository using MongoDB.
type MongoStoreRepo struct {
	productColl *mongo.Collection
	cartColl    *mongo.Collection
}

// NewMongoStoreRepo constructs a new instance of MongoStoreRepo.
func NewMongoStoreRepo() StoreRepository {
	db := database.DB()
	return &MongoStoreRepo{
		productColl: db.Collection("products"),
		cartColl:    db.Collection("carts"),
	}
}

func (repo *MongoStoreRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.productColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}
	return nil
}

func (repo *MongoStoreRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Product
	if err := repo.productColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error fetching product with id %s: %w", id, err)
	}
	return &p, nil
}

func (repo *MongoStoreRepo) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := repo.productColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}
	return products, nil
}

func (repo *MongoStoreRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.productColl.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("error updating product %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (repo *MongoStoreRepo) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.productColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementInventory guards against oversell with a conditional update: the
// filter only matches while enough units remain.
func (repo *MongoStoreRepo) DecrementInventory(ctx context.Context, productID string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": productID, "inventory_amount": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"inventory_amount": -qty}}
	res, err := repo.productColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error decrementing inventory for product %s: %w", productID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := repo.GetProduct(ctx, productID); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (repo *MongoStoreRepo) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id":    item.UserID,
		"product_id": item.ProductID,
		"status":     models.CartStatusActive,
	}
	var existing models.CartItem
	err := repo.cartColl.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == mongo.ErrNoDocuments:
		if _, err := repo.cartColl.InsertOne(ctx, item); err != nil {
			return fmt.Errorf("error adding cart item: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("error checking cart: %w", err)
	}

	update := bson.M{"$inc": bson.M{"quantity": item.Quantity}, "$set": bson.M{"updated_at": item.UpdatedAt}}
	if _, err := repo.cartColl.UpdateOne(ctx, bson.M{"id": existing.ID}, update); err != nil {
		return fmt.Errorf("error merging cart item: %w", err)
	}
	item.ID = existing.ID
	return nil
}

func (repo *MongoStoreRepo) GetCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.CartItem
	if err := repo.cartColl.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("error fetching cart item %s: %w", id, err)
	}
	return &item, nil
}

func (repo *MongoStoreRepo) ListCart(ctx context.Context, userID, status string) ([]models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := repo.cartColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing cart for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("error decoding cart items: %w", err)
	}
	return items, nil
}

func (repo *MongoStoreRepo) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.cartColl.UpdateOne(ctx, bson.M{"id": item.ID}, bson.M{"$set": item})
	if err != nil {
		return fmt.Errorf("error updating cart item %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (repo *MongoStoreRepo) DeleteCartItem(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.cartColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting cart item %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
