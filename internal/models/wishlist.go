package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist holds the products a user saved for later, newest last.
type Wishlist struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID   `bson:"userId" json:"-"`
	ProductIDs []primitive.ObjectID `bson:"productIds" json:"productIds"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}
