package models

// Product is a pest-control item sold in the store.
type Product struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description" json:"description"`
	Price           float64 `bson:"price" json:"price"`
	Category        string  `bson:"category" json:"category"`
	ImagePath       string  `bson:"image_path" json:"image_path"` // served by the external image host
	InventoryAmount int     `bson:"inventory_amount" json:"inventory_amount"`
}
