package rating

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type Ledger interface {
	Upsert(ctx context.Context, rating *domain.Rating) error
	Summary(ctx context.Context, productID string) (domain.RatingSummary, error)
}

type ProductFinder interface {
	FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
}

type Handler struct {
	ledger  Ledger
	catalog ProductFinder
	logger  *slog.Logger
}

func NewHandler(ledger Ledger, catalog ProductFinder, logger *slog.Logger) *Handler {
	return &Handler{
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
	}
}

type rateRequest struct {
	Value  int    `json:"value"`
	Review string `json:"review"`
}

func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	productID := r.PathValue("id")
	if productID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing product id")
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Value < 1 || req.Value > 5 {
		httpapi.WriteDomainError(w, h.logger, &domain.ValidationError{Field: "value", Reason: "must be between 1 and 5"})
		return
	}

	product, err := h.catalog.FindActiveProduct(r.Context(), productID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	rating := &domain.Rating{
		ProductID: product.ID,
		UserID:    userID,
		Value:     req.Value,
		Review:    req.Review,
	}
	if err := h.ledger.Upsert(r.Context(), rating); err != nil {
		h.logger.Error("failed to upsert rating", "error", err, "product_id", product.ID, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	summary, err := h.ledger.Summary(r.Context(), product.ID)
	if err != nil {
		h.logger.Error("failed to get rating summary", "error", err, "product_id", product.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product rated", "product_id", product.ID, "user_id", userID, "value", req.Value)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"average_rating": summary.Average,
		"rating_count":   summary.Count,
	})
}
