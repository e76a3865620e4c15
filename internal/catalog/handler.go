package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type Store interface {
	FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	IncrementViews(ctx context.Context, productID string) error
}

type RatingReader interface {
	Summary(ctx context.Context, productID string) (domain.RatingSummary, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Rating, error)
}

type ViewRecorder interface {
	Record(ctx context.Context, userID, productID string) error
}

type Handler struct {
	store   Store
	ratings RatingReader
	history ViewRecorder
	logger  *slog.Logger
}

func NewHandler(store Store, ratings RatingReader, history ViewRecorder, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		ratings: ratings,
		history: history,
		logger:  logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Size:       q.Get("size"),
		Type:       q.Get("type"),
		Season:     q.Get("season"),
		SortBy:     q.Get("sort_by"),
	}
	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = &d
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	products, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{"products": products})
}

type productDetailResponse struct {
	Product       *domain.Product `json:"product"`
	AverageRating float64         `json:"average_rating"`
	RatingCount   int             `json:"rating_count"`
	Ratings       []domain.Rating `json:"ratings"`
}

func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing product slug")
		return
	}

	product, err := h.store.FindActiveProduct(r.Context(), slug)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	// Best effort: a lost increment is acceptable, the page still renders.
	if err := h.store.IncrementViews(r.Context(), product.ID); err != nil {
		h.logger.Error("failed to increment views", "error", err, "product_id", product.ID)
	} else {
		product.Views++
	}

	if userID := httpapi.UserID(r.Context()); userID != "" {
		if err := h.history.Record(r.Context(), userID, product.ID); err != nil {
			h.logger.Error("failed to record view history", "error", err, "product_id", product.ID)
		}
	}

	summary, err := h.ratings.Summary(r.Context(), product.ID)
	if err != nil {
		h.logger.Error("failed to get rating summary", "error", err, "product_id", product.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	ratings, err := h.ratings.ListByProduct(r.Context(), product.ID)
	if err != nil {
		h.logger.Error("failed to list ratings", "error", err, "product_id", product.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product viewed", "product_id", product.ID, "slug", product.Slug)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, productDetailResponse{
		Product:       product,
		AverageRating: summary.Average,
		RatingCount:   summary.Count,
		Ratings:       ratings,
	})
}
