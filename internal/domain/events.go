package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Total     decimal.Decimal  `json:"total"`
	Lines     []OrderLineEvent `json:"lines"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderLineEvent struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
