package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCard  = "card"
	PaymentMethodOther = "other"
)

// PaymentMethod stores a saved payment instrument. Full card numbers are
// never persisted: only the last four digits and the detected brand.
type PaymentMethod struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"-"`
	Type       string             `bson:"type" json:"type"`
	CardLast4  string             `bson:"cardLast4,omitempty" json:"cardLast4,omitempty"`
	CardBrand  string             `bson:"cardBrand,omitempty" json:"cardBrand,omitempty"`
	ExpMonth   int                `bson:"expMonth,omitempty" json:"expMonth,omitempty"`
	ExpYear    int                `bson:"expYear,omitempty" json:"expYear,omitempty"`
	HolderName string             `bson:"holderName,omitempty" json:"holderName,omitempty"`
	Label      string             `bson:"label,omitempty" json:"label,omitempty"`
	IsDefault  bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
