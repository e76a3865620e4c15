package wishlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type Wishlist interface {
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string, limit int) ([]domain.WishlistEntry, error)
}

type ProductFinder interface {
	FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
}

type Handler struct {
	wishlist Wishlist
	catalog  ProductFinder
	logger   *slog.Logger
}

func NewHandler(wishlist Wishlist, catalog ProductFinder, logger *slog.Logger) *Handler {
	return &Handler{
		wishlist: wishlist,
		catalog:  catalog,
		logger:   logger,
	}
}

func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	productID := r.PathValue("productId")
	if productID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.catalog.FindActiveProduct(r.Context(), productID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	member, err := h.wishlist.Toggle(r.Context(), userID, product.ID)
	if err != nil {
		h.logger.Error("failed to toggle wishlist", "error", err, "product_id", product.ID, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("wishlist toggled", "product_id", product.ID, "user_id", userID, "in_wishlist", member)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{"in_wishlist": member})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	entries, err := h.wishlist.List(r.Context(), userID, 50)
	if err != nil {
		h.logger.Error("failed to list wishlist", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{"wishlist": entries})
}
