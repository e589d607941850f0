package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var validNextStatus = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus validates a raw status value.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(raw)
	_, ok := validNextStatus[s]
	return s, ok
}

// CanTransition reports whether the order lifecycle allows moving from one
// status to the other. DELIVERED and CANCELLED are terminal.
func CanTransition(from, to OrderStatus) bool {
	return validNextStatus[from][to]
}

// OrderItem is a snapshot of a product line at purchase time; later product
// edits do not change past orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	ImagePath string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
}

// Order defines the persisted order document.
type Order struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Number            string              `bson:"number" json:"number"`
	UserID            primitive.ObjectID  `bson:"userId" json:"userId"`
	Items             []OrderItem         `bson:"items" json:"items"`
	Subtotal          float64             `bson:"subtotal" json:"subtotal"`
	DeliveryFee       float64             `bson:"deliveryFee" json:"deliveryFee"`
	Discount          float64             `bson:"discount" json:"discount"`
	Total             float64             `bson:"total" json:"total"`
	Status            OrderStatus         `bson:"status" json:"status"`
	ShippingAddressID *primitive.ObjectID `bson:"shippingAddressId,omitempty" json:"shippingAddressId,omitempty"`
	TrackingNumber    string              `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Courier           string              `bson:"courier,omitempty" json:"courier,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
