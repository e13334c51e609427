package models

import "time"

// Technician represents a field technician on the roster.
type Technician struct {
	ID              string     `bson:"id" json:"id"`
	Name            string     `bson:"name" json:"name"`
	Email           string     `bson:"email" json:"email"`
	Phone           string     `bson:"phone" json:"phone"`
	Skills          []string   `bson:"skills" json:"skills"`
	ExperienceYears int        `bson:"experience_years" json:"experience_years"`
	Salary          float64    `bson:"salary" json:"salary"`
	LastAssignedAt  *time.Time `bson:"last_assigned_at,omitempty" json:"last_assigned_at,omitempty"` // nil until first assignment; allocation fairness key
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
}
