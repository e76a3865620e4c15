package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
	"github.com/panathinaikos/storefront/internal/httpapi"
)

type fakeStore struct {
	product    *domain.Product
	lastFilter ProductFilter
	increments int
}

func (f *fakeStore) FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if f.product == nil || (f.product.Slug != idOrSlug && f.product.ID != idOrSlug) {
		return nil, domain.ErrNotFound
	}
	p := *f.product
	return &p, nil
}

func (f *fakeStore) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	f.lastFilter = filter
	if f.product == nil {
		return []domain.Product{}, nil
	}
	return []domain.Product{*f.product}, nil
}

func (f *fakeStore) IncrementViews(ctx context.Context, productID string) error {
	f.increments++
	return nil
}

type fakeRatings struct{}

func (fakeRatings) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	return domain.RatingSummary{}, nil
}

func (fakeRatings) ListByProduct(ctx context.Context, productID string) ([]domain.Rating, error) {
	return []domain.Rating{}, nil
}

type fakeHistory struct {
	recorded []string
}

func (f *fakeHistory) Record(ctx context.Context, userID, productID string) error {
	f.recorded = append(f.recorded, userID+"/"+productID)
	return nil
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:       "p1",
		Name:     "Supporter Scarf",
		Slug:     "supporter-scarf",
		Price:    decimal.RequireFromString("14.99"),
		IsActive: true,
		Views:    7,
	}
}

func newTestHandler(store *fakeStore, history *fakeHistory) *Handler {
	return NewHandler(store, fakeRatings{}, history, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleDetail(t *testing.T) {
	t.Run("increments the view counter", func(t *testing.T) {
		store := &fakeStore{product: testProduct()}
		handler := newTestHandler(store, &fakeHistory{})

		req := httptest.NewRequest(http.MethodGet, "/products/supporter-scarf", nil)
		req.SetPathValue("slug", "supporter-scarf")
		rec := httptest.NewRecorder()
		handler.HandleDetail(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if store.increments != 1 {
			t.Errorf("expected 1 view increment, got %d", store.increments)
		}

		var resp productDetailResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Product.Views != 8 {
			t.Errorf("expected views 8 in response, got %d", resp.Product.Views)
		}
	})

	t.Run("records history only for identified callers", func(t *testing.T) {
		store := &fakeStore{product: testProduct()}
		history := &fakeHistory{}
		handler := newTestHandler(store, history)

		anon := httptest.NewRequest(http.MethodGet, "/products/supporter-scarf", nil)
		anon.SetPathValue("slug", "supporter-scarf")
		handler.HandleDetail(httptest.NewRecorder(), anon)

		if len(history.recorded) != 0 {
			t.Fatalf("expected no history for anonymous view, got %d entries", len(history.recorded))
		}

		authed := httptest.NewRequest(http.MethodGet, "/products/supporter-scarf", nil)
		authed.SetPathValue("slug", "supporter-scarf")
		authed = authed.WithContext(httpapi.WithUserID(authed.Context(), "user-1"))
		handler.HandleDetail(httptest.NewRecorder(), authed)

		if len(history.recorded) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(history.recorded))
		}
		if history.recorded[0] != "user-1/p1" {
			t.Errorf("unexpected history entry %q", history.recorded[0])
		}
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeHistory{})

		req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
		req.SetPathValue("slug", "nope")
		rec := httptest.NewRecorder()
		handler.HandleDetail(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleList(t *testing.T) {
	t.Run("parses filters from the query string", func(t *testing.T) {
		store := &fakeStore{product: testProduct()}
		handler := newTestHandler(store, &fakeHistory{})

		req := httptest.NewRequest(http.MethodGet,
			"/products?search=scarf&min_price=5.00&max_price=20&size=ONE&sort_by=price_asc&limit=24", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		f := store.lastFilter
		if f.Search != "scarf" || f.Size != "ONE" || f.SortBy != "price_asc" || f.Limit != 24 {
			t.Errorf("unexpected filter parsed: %+v", f)
		}
		if f.MinPrice == nil || !f.MinPrice.Equal(decimal.RequireFromString("5.00")) {
			t.Errorf("expected min price 5.00, got %v", f.MinPrice)
		}
		if f.MaxPrice == nil || !f.MaxPrice.Equal(decimal.RequireFromString("20")) {
			t.Errorf("expected max price 20, got %v", f.MaxPrice)
		}
	})

	t.Run("rejects malformed price bounds", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeHistory{})

		req := httptest.NewRequest(http.MethodGet, "/products?min_price=cheap", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
