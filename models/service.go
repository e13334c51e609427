package models

// Service is a bookable pest-control service from the catalog.
// Immutable during booking; staffing requirement drives the allocator.
type Service struct {
	ID                string  `bson:"id" json:"id"`
	ServiceType       string  `bson:"service_type" json:"service_type"`
	Category          string  `bson:"category" json:"category"`
	Name              string  `bson:"name" json:"name"`
	TechniciansNeeded int     `bson:"technicians_needed" json:"technicians_needed"`
	Price             float64 `bson:"price" json:"price"`
	Description       string  `bson:"description" json:"description"`
	DurationMinutes   int     `bson:"duration_minutes" json:"duration_minutes"`
	PestType          string  `bson:"pest_type" json:"pest_type"`
}
