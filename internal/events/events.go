package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status.changed"
)

// Envelope wraps every order event put on the stream. The order ID doubles
// as the partition key so events for one order keep their ordering.
type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	OrderID    string          `json:"orderId"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID string  `json:"orderId"`
	Number  string  `json:"number"`
	UserID  string  `json:"userId"`
	Total   float64 `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"orderId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// NewEnvelope marshals the payload and stamps the event. Marshal failures
// cannot happen for the payload structs above, so the error is swallowed the
// same way the handlers treat event publishing as best-effort.
func NewEnvelope(eventType, orderID string, payload any) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		OrderID:    orderID,
		Payload:    raw,
	}
}
