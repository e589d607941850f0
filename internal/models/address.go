package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping address owned by exactly one user. Among a user's
// addresses at most one carries isDefault=true; the handlers keep that flag
// consistent across create, update, delete and set-default.
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"-"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Line1      string             `bson:"line1" json:"line1"`
	Line2      string             `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string             `bson:"city" json:"city"`
	Region     string             `bson:"region" json:"region"`
	PostalCode string             `bson:"postalCode" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault  bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
