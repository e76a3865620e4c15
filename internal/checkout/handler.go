package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type Orders interface {
	Checkout(ctx context.Context, userID, shippingAddress string) (*domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	orders   Orders
	producer Publisher
	logger   *slog.Logger
}

// NewHandler accepts a nil producer; checkout then skips event publishing.
func NewHandler(orders Orders, producer Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		orders:   orders,
		producer: producer,
		logger:   logger,
	}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		httpapi.WriteDomainError(w, h.logger, &domain.ValidationError{Field: "shipping_address", Reason: "must not be empty"})
		return
	}

	order, err := h.orders.Checkout(r.Context(), userID, req.ShippingAddress)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	// Published outside the transaction; a failed publish never unwinds a
	// committed order.
	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Total:     order.Total,
			Timestamp: order.CreatedAt,
		}
		for _, line := range order.Lines {
			event.Lines = append(event.Lines, domain.OrderLineEvent{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order placed", "order_id", order.ID, "user_id", order.UserID, "total", order.Total)
	httpapi.WriteJSON(w, h.logger, http.StatusCreated, map[string]any{
		"order_id": order.ID,
		"total":    order.Total,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	orderID := r.PathValue("id")
	if orderID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.orders.GetByID(r.Context(), userID, orderID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{"orders": orders})
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("order status updated", "order_id", orderID, "status", req.Status)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"order_id": orderID,
		"status":   req.Status,
	})
}
