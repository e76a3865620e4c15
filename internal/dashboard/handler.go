// Package dashboard aggregates a user's recent activity for the account
// dashboard: latest views, wishlist entries, ratings and orders.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type ViewLister interface {
	Recent(ctx context.Context, userID string, limit int) ([]domain.ViewRecord, error)
}

type WishlistLister interface {
	List(ctx context.Context, userID string, limit int) ([]domain.WishlistEntry, error)
}

type RatingLister interface {
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Rating, error)
}

type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type Handler struct {
	views    ViewLister
	wishlist WishlistLister
	ratings  RatingLister
	orders   OrderLister
	logger   *slog.Logger
}

func NewHandler(views ViewLister, wishlist WishlistLister, ratings RatingLister, orders OrderLister, logger *slog.Logger) *Handler {
	return &Handler{
		views:    views,
		wishlist: wishlist,
		ratings:  ratings,
		orders:   orders,
		logger:   logger,
	}
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpapi.UserID(ctx)

	recentViews, err := h.views.Recent(ctx, userID, 10)
	if err != nil {
		h.logger.Error("failed to load view history", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	wishlist, err := h.wishlist.List(ctx, userID, 10)
	if err != nil {
		h.logger.Error("failed to load wishlist", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	ratings, err := h.ratings.RecentByUser(ctx, userID, 10)
	if err != nil {
		h.logger.Error("failed to load ratings", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load orders", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(orders) > 5 {
		orders = orders[:5]
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"recent_views":   recentViews,
		"wishlist":       wishlist,
		"recent_ratings": ratings,
		"recent_orders":  orders,
	})
}
