// Package fulfillment reacts to order.placed events: a freshly placed
// order is picked up off the queue and moved from PENDING to PROCESSING.
package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/panathinaikos/storefront/internal/domain"
)

type OrderTransitioner interface {
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

type Handler struct {
	orders OrderTransitioner
	logger *slog.Logger
}

func NewHandler(orders OrderTransitioner, logger *slog.Logger) *Handler {
	return &Handler{
		orders: orders,
		logger: logger,
	}
}

// Handle advances the order named by the event to PROCESSING. Payloads
// that cannot be acted on again later are dropped: malformed JSON and
// unknown order ids are logged, not returned, so the consumer commits
// past them instead of wedging on a poison message.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("dropping malformed order placed event", "error", err)
		return nil
	}
	if event.OrderID == "" {
		h.logger.Error("dropping order placed event without order id")
		return nil
	}

	h.logger.Info("processing order placed event",
		"order_id", event.OrderID, "user_id", event.UserID, "total", event.Total)

	err := h.orders.UpdateStatus(ctx, event.OrderID, domain.OrderStatusProcessing)
	if domain.IsNotFound(err) {
		h.logger.Error("dropping event for unknown order", "order_id", event.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("advance order %s to processing: %w", event.OrderID, err)
	}

	h.logger.Info("order moved to processing", "order_id", event.OrderID)
	return nil
}
