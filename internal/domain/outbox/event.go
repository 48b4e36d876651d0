package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

var AllStatuses = []string{StatusPending, StatusPublished, StatusFailed}

const (
	TopicCustomerRegistered = "customer.registered"
	TopicCustomerRemoved    = "customer.removed"
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
)

// Event is a domain event recorded in the same transaction as the write that
// produced it and relayed to the configured brokers afterwards.
type Event struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Topic        string         `gorm:"column:topic;not null;index" json:"topic"`
	AggregateKey string         `gorm:"column:aggregate_key;not null;index" json:"aggregate_key"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload"`

	Status    string `gorm:"column:status;not null;index:idx_outbox_events_status_created,priority:1" json:"status"`
	Attempts  int    `gorm:"column:attempts;not null" json:"attempts"`
	LastError string `gorm:"column:last_error;type:text" json:"last_error,omitempty"`

	CreatedAt   time.Time  `gorm:"column:created_at;not null;index:idx_outbox_events_status_created,priority:2" json:"created_at"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Event) TableName() string { return "outbox_events" }

type OrderLinePayload struct {
	ItemID    int64  `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderPlacedPayload struct {
	OrderID         int64              `json:"order_id"`
	CustomerTaxID   string             `json:"customer_tax_id"`
	ShippingAddress string             `json:"shipping_address"`
	Total           string             `json:"total"`
	Status          string             `json:"status"`
	Lines           []OrderLinePayload `json:"lines"`
	PlacedAt        time.Time          `json:"placed_at"`
}

type OrderStatusChangedPayload struct {
	OrderID    int64     `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

type CustomerRegisteredPayload struct {
	TaxID        string    `json:"tax_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type CustomerRemovedPayload struct {
	TaxID          string    `json:"tax_id"`
	DetachedOrders int64     `json:"detached_orders"`
	RemovedAt      time.Time `json:"removed_at"`
}
