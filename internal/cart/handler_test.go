package cart

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

const testUserID = "8b7f4a92-1a36-4c6e-8f51-2f2f6f1f9a10"

type fakeCarts struct {
	cart  domain.Cart
	lines []domain.CartLine
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{cart: domain.Cart{ID: "cart-1", UserID: testUserID}}
}

func (f *fakeCarts) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	c := f.cart
	return &c, nil
}

func (f *fakeCarts) AddLine(ctx context.Context, cartID, productID string, delta int) error {
	for i := range f.lines {
		if f.lines[i].ProductID == productID {
			f.lines[i].Quantity += delta
			return nil
		}
	}
	f.lines = append(f.lines, domain.CartLine{
		ID:        "line-" + productID,
		CartID:    cartID,
		ProductID: productID,
		Quantity:  delta,
	})
	return nil
}

func (f *fakeCarts) Lines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return f.lines, nil
}

func (f *fakeCarts) Line(ctx context.Context, userID, lineID string) (*domain.CartLine, error) {
	if userID != testUserID {
		return nil, domain.ErrNotFound
	}
	for _, l := range f.lines {
		if l.ID == lineID {
			line := l
			return &line, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCarts) SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	if quantity <= 0 {
		return f.RemoveLine(ctx, userID, lineID)
	}
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCarts) RemoveLine(ctx context.Context, userID, lineID string) error {
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCarts) Total(ctx context.Context, cartID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range f.lines {
		total = total.Add(l.Subtotal())
	}
	return total, nil
}

func (f *fakeCarts) ItemCount(ctx context.Context, cartID string) (int, error) {
	count := 0
	for _, l := range f.lines {
		count += l.Quantity
	}
	return count, nil
}

type fakeCatalog struct {
	products map[string]*domain.Product
}

func (f *fakeCatalog) FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	p, ok := f.products[idOrSlug]
	if !ok || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func newHandler(carts *fakeCarts, catalog *fakeCatalog) *Handler {
	return NewHandler(carts, catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(httpapi.WithUserID(req.Context(), testUserID))
}

func TestHandler_HandleAddLine(t *testing.T) {
	jersey := &domain.Product{ID: "p1", Name: "Home Jersey", Price: decimal.RequireFromString("79.99"), IsActive: true}

	t.Run("adding the same product twice accumulates one line", func(t *testing.T) {
		carts := newFakeCarts()
		handler := newHandler(carts, &fakeCatalog{products: map[string]*domain.Product{"p1": jersey}})

		for range 2 {
			rec := httptest.NewRecorder()
			handler.HandleAddLine(rec, authedRequest(http.MethodPost, "/cart/lines", `{"product_id":"p1"}`))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
		}

		if len(carts.lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(carts.lines))
		}
		if carts.lines[0].Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", carts.lines[0].Quantity)
		}
	})

	t.Run("reports the accumulated item count", func(t *testing.T) {
		carts := newFakeCarts()
		handler := newHandler(carts, &fakeCatalog{products: map[string]*domain.Product{"p1": jersey}})

		rec := httptest.NewRecorder()
		handler.HandleAddLine(rec, authedRequest(http.MethodPost, "/cart/lines", `{"product_id":"p1","quantity":3}`))

		var resp map[string]int
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["cart_count"] != 3 {
			t.Errorf("expected cart_count 3, got %d", resp["cart_count"])
		}
	})

	t.Run("missing product is 404", func(t *testing.T) {
		handler := newHandler(newFakeCarts(), &fakeCatalog{products: map[string]*domain.Product{}})

		rec := httptest.NewRecorder()
		handler.HandleAddLine(rec, authedRequest(http.MethodPost, "/cart/lines", `{"product_id":"ghost"}`))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("inactive product is 404", func(t *testing.T) {
		retired := &domain.Product{ID: "p2", Name: "Retired", Price: decimal.RequireFromString("9.99"), IsActive: false}
		handler := newHandler(newFakeCarts(), &fakeCatalog{products: map[string]*domain.Product{"p2": retired}})

		rec := httptest.NewRecorder()
		handler.HandleAddLine(rec, authedRequest(http.MethodPost, "/cart/lines", `{"product_id":"p2"}`))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("negative quantity is 400", func(t *testing.T) {
		handler := newHandler(newFakeCarts(), &fakeCatalog{products: map[string]*domain.Product{"p1": jersey}})

		rec := httptest.NewRecorder()
		handler.HandleAddLine(rec, authedRequest(http.MethodPost, "/cart/lines", `{"product_id":"p1","quantity":-2}`))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleSetQuantity(t *testing.T) {
	setup := func() (*fakeCarts, *Handler) {
		carts := newFakeCarts()
		carts.lines = []domain.CartLine{{
			ID:        "line-p1",
			CartID:    "cart-1",
			ProductID: "p1",
			UnitPrice: decimal.RequireFromString("10.00"),
			Quantity:  2,
		}}
		return carts, newHandler(carts, &fakeCatalog{})
	}

	t.Run("overwrites the quantity and returns totals", func(t *testing.T) {
		_, handler := setup()

		req := authedRequest(http.MethodPatch, "/cart/lines/line-p1", `{"quantity":5}`)
		req.SetPathValue("id", "line-p1")
		rec := httptest.NewRecorder()
		handler.HandleSetQuantity(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if sub := decimal.RequireFromString(resp["line_subtotal"]); !sub.Equal(decimal.RequireFromString("50")) {
			t.Errorf("expected line_subtotal 50, got %s", sub)
		}
		if total := decimal.RequireFromString(resp["cart_total"]); !total.Equal(decimal.RequireFromString("50")) {
			t.Errorf("expected cart_total 50, got %s", total)
		}
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		carts, handler := setup()

		req := authedRequest(http.MethodPatch, "/cart/lines/line-p1", `{"quantity":0}`)
		req.SetPathValue("id", "line-p1")
		rec := httptest.NewRecorder()
		handler.HandleSetQuantity(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(carts.lines) != 0 {
			t.Errorf("expected line to be removed, found %d lines", len(carts.lines))
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if sub := decimal.RequireFromString(resp["line_subtotal"]); !sub.IsZero() {
			t.Errorf("expected zero subtotal after removal, got %s", sub)
		}
	})

	t.Run("unknown line is 404", func(t *testing.T) {
		_, handler := setup()

		req := authedRequest(http.MethodPatch, "/cart/lines/other", `{"quantity":1}`)
		req.SetPathValue("id", "other")
		rec := httptest.NewRecorder()
		handler.HandleSetQuantity(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleRemoveLine(t *testing.T) {
	carts := newFakeCarts()
	carts.lines = []domain.CartLine{
		{ID: "line-p1", CartID: "cart-1", ProductID: "p1", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: "line-p2", CartID: "cart-1", ProductID: "p2", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1},
	}
	handler := newHandler(carts, &fakeCatalog{})

	req := authedRequest(http.MethodDelete, "/cart/lines/line-p1", "")
	req.SetPathValue("id", "line-p1")
	rec := httptest.NewRecorder()
	handler.HandleRemoveLine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		CartCount int    `json:"cart_count"`
		CartTotal string `json:"cart_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CartCount != 1 {
		t.Errorf("expected cart_count 1, got %d", resp.CartCount)
	}
	if total := decimal.RequireFromString(resp.CartTotal); !total.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("expected cart_total 5.00, got %s", total)
	}
}
