package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type Carts interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, delta int) error
	Lines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	Line(ctx context.Context, userID, lineID string) (*domain.CartLine, error)
	SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, userID, lineID string) error
	Total(ctx context.Context, cartID string) (decimal.Decimal, error)
	ItemCount(ctx context.Context, cartID string) (int, error)
}

type ProductFinder interface {
	FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
}

type Handler struct {
	carts   Carts
	catalog ProductFinder
	logger  *slog.Logger
}

func NewHandler(carts Carts, catalog ProductFinder, logger *slog.Logger) *Handler {
	return &Handler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

type cartLineView struct {
	domain.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	c, err := h.carts.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get cart", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	lines, err := h.carts.Lines(r.Context(), c.ID)
	if err != nil {
		h.logger.Error("failed to load cart lines", "error", err, "cart_id", c.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]cartLineView, 0, len(lines))
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		views = append(views, cartLineView{CartLine: l, Subtotal: l.Subtotal()})
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}

	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"cart":       c,
		"lines":      views,
		"cart_total": total,
		"cart_count": count,
	})
}

type addLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) HandleAddLine(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		httpapi.WriteDomainError(w, h.logger, &domain.ValidationError{Field: "quantity", Reason: "must be positive"})
		return
	}

	product, err := h.catalog.FindActiveProduct(r.Context(), req.ProductID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	c, err := h.carts.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get cart", "error", err, "user_id", userID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.carts.AddLine(r.Context(), c.ID, product.ID, req.Quantity); err != nil {
		h.logger.Error("failed to add cart line", "error", err, "cart_id", c.ID, "product_id", product.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	count, err := h.carts.ItemCount(r.Context(), c.ID)
	if err != nil {
		h.logger.Error("failed to count cart items", "error", err, "cart_id", c.ID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product added to cart", "cart_id", c.ID, "product_id", product.ID, "quantity", req.Quantity)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{"cart_count": count})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	lineID := r.PathValue("id")
	if lineID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing line id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := h.carts.Line(r.Context(), userID, lineID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	// quantity <= 0 is treated as removal
	if err := h.carts.SetLineQuantity(r.Context(), userID, lineID, req.Quantity); err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	subtotal := decimal.Zero
	if req.Quantity > 0 {
		subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	}

	total, err := h.carts.Total(r.Context(), line.CartID)
	if err != nil {
		h.logger.Error("failed to total cart", "error", err, "cart_id", line.CartID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart line updated", "line_id", lineID, "quantity", req.Quantity)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"cart_total":    total,
		"line_subtotal": subtotal,
	})
}

func (h *Handler) HandleRemoveLine(w http.ResponseWriter, r *http.Request) {
	userID := httpapi.UserID(r.Context())

	lineID := r.PathValue("id")
	if lineID == "" {
		httpapi.WriteError(w, h.logger, http.StatusBadRequest, "missing line id")
		return
	}

	line, err := h.carts.Line(r.Context(), userID, lineID)
	if err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	if err := h.carts.RemoveLine(r.Context(), userID, lineID); err != nil {
		httpapi.WriteDomainError(w, h.logger, err)
		return
	}

	count, err := h.carts.ItemCount(r.Context(), line.CartID)
	if err != nil {
		h.logger.Error("failed to count cart items", "error", err, "cart_id", line.CartID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	total, err := h.carts.Total(r.Context(), line.CartID)
	if err != nil {
		h.logger.Error("failed to total cart", "error", err, "cart_id", line.CartID)
		httpapi.WriteError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart line removed", "line_id", lineID)
	httpapi.WriteJSON(w, h.logger, http.StatusOK, map[string]any{
		"cart_count": count,
		"cart_total": total,
	})
}
