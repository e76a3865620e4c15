package rating

import (
	"context"
	"encoding/json"
	"fmt"
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

const testUserID = "f7e4a7f2-5bb7-4a09-8c68-c44e6e6a8f0d"

type fakeLedger struct {
	// one rating per (product, user), latest value wins
	ratings map[string]*domain.Rating
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{ratings: map[string]*domain.Rating{}}
}

func (f *fakeLedger) Upsert(ctx context.Context, rating *domain.Rating) error {
	key := rating.ProductID + "/" + rating.UserID
	if existing, ok := f.ratings[key]; ok {
		existing.Value = rating.Value
		existing.Review = rating.Review
		return nil
	}
	rating.ID = key
	f.ratings[key] = rating
	return nil
}

func (f *fakeLedger) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	sum, count := 0, 0
	for _, r := range f.ratings {
		if r.ProductID == productID {
			sum += r.Value
			count++
		}
	}
	if count == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: float64(sum) / float64(count), Count: count}, nil
}

type fakeCatalog struct {
	product *domain.Product
}

func (f *fakeCatalog) FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if f.product == nil || (f.product.ID != idOrSlug && f.product.Slug != idOrSlug) {
		return nil, domain.ErrNotFound
	}
	return f.product, nil
}

func rateRequestFor(productID string, value int) *http.Request {
	body := fmt.Sprintf(`{"value":%d,"review":"solid kit"}`, value)
	req := httptest.NewRequest(http.MethodPost, "/products/"+productID+"/ratings", strings.NewReader(body))
	req.SetPathValue("id", productID)
	return req.WithContext(httpapi.WithUserID(req.Context(), testUserID))
}

func newTestHandler(ledger *fakeLedger) *Handler {
	jersey := &domain.Product{ID: "p1", Slug: "home-jersey", Price: decimal.RequireFromString("79.99"), IsActive: true}
	return NewHandler(ledger, &fakeCatalog{product: jersey}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleRate(t *testing.T) {
	t.Run("boundary values", func(t *testing.T) {
		cases := []struct {
			value      int
			wantStatus int
		}{
			{0, http.StatusBadRequest},
			{1, http.StatusOK},
			{5, http.StatusOK},
			{6, http.StatusBadRequest},
		}

		for _, tc := range cases {
			t.Run(fmt.Sprintf("value %d", tc.value), func(t *testing.T) {
				handler := newTestHandler(newFakeLedger())
				rec := httptest.NewRecorder()
				handler.HandleRate(rec, rateRequestFor("p1", tc.value))

				if rec.Code != tc.wantStatus {
					t.Errorf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
				}
			})
		}
	})

	t.Run("re-rating keeps one rating with the latest value", func(t *testing.T) {
		ledger := newFakeLedger()
		handler := newTestHandler(ledger)

		for _, value := range []int{3, 5} {
			rec := httptest.NewRecorder()
			handler.HandleRate(rec, rateRequestFor("p1", value))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
		}

		if len(ledger.ratings) != 1 {
			t.Fatalf("expected 1 rating, got %d", len(ledger.ratings))
		}

		summary, _ := ledger.Summary(context.Background(), "p1")
		if summary.Count != 1 || summary.Average != 5 {
			t.Errorf("expected average 5 with count 1, got %v/%d", summary.Average, summary.Count)
		}
	})

	t.Run("responds with the recomputed average", func(t *testing.T) {
		handler := newTestHandler(newFakeLedger())

		rec := httptest.NewRecorder()
		handler.HandleRate(rec, rateRequestFor("p1", 4))

		var resp struct {
			AverageRating float64 `json:"average_rating"`
			RatingCount   int     `json:"rating_count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.AverageRating != 4 {
			t.Errorf("expected average_rating 4, got %v", resp.AverageRating)
		}
		if resp.RatingCount != 1 {
			t.Errorf("expected rating_count 1, got %d", resp.RatingCount)
		}
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		handler := newTestHandler(newFakeLedger())

		rec := httptest.NewRecorder()
		handler.HandleRate(rec, rateRequestFor("ghost", 3))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}
