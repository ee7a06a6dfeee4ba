package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/csfloat"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/pricing"
	"github.com/gin-gonic/gin"
)

type countingSource struct {
	mu       sync.Mutex
	calls    int
	listings []csfloat.Listing
}

func (s *countingSource) Listings(ctx context.Context, params csfloat.ListingParams) ([]csfloat.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.listings, nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type nopWriter struct{}

func (nopWriter) WritePrice(ctx context.Context, itemID uint, priceCents int64) (models.ItemPrice, error) {
	return models.NewItemPrice(itemID, priceCents), nil
}

// newTestRouter wires the handler with a nil *gorm.DB: any handler path that
// touches the database before it should will panic and fail the test.
func newTestRouter(secret string, source pricing.ListingSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	runner := pricing.NewRunner(pricing.NewResolver(source), nopWriter{}, nil)
	runner.SetSleep(func(d time.Duration) {})

	h := NewAPIHandler(nil, runner, source, secret, pricing.BatchPolicy(5, 0), pricing.ManualPolicy(0), nil)
	r := gin.New()
	SetupRoutes(r.Group("/api/v1"), h)
	return r
}

func TestUpdatePricesRejectsMissingToken(t *testing.T) {
	source := &countingSource{}
	r := newTestRouter("super-secret", source)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/update-prices", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if source.callCount() != 0 {
		t.Fatalf("expected no upstream calls before auth, got %d", source.callCount())
	}
}

func TestUpdatePricesRejectsWrongToken(t *testing.T) {
	source := &countingSource{}
	r := newTestRouter("super-secret", source)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/update-prices", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if source.callCount() != 0 {
		t.Fatalf("expected no upstream calls, got %d", source.callCount())
	}
}

func TestUpdatePricesRejectsWhenSecretUnset(t *testing.T) {
	// With no configured secret the scheduled trigger is closed, not open.
	source := &countingSource{}
	r := newTestRouter("", source)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/update-prices", nil)
	req.Header.Set("Authorization", "Bearer ")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUpdatePricesInfo(t *testing.T) {
	r := newTestRouter("secret", &countingSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/update-prices", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProxyListingsRequiresDefIndex(t *testing.T) {
	source := &countingSource{}
	r := newTestRouter("secret", source)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if source.callCount() != 0 {
		t.Fatalf("expected no upstream calls, got %d", source.callCount())
	}
}

func TestProxyListingsReturnsData(t *testing.T) {
	source := &countingSource{listings: []csfloat.Listing{{ID: "l1", Price: 9099}}}
	r := newTestRouter("secret", source)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?def_index=7&limit=5", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data []csfloat.Listing `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Price != 9099 {
		t.Fatalf("unexpected listings: %+v", body.Data)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected one upstream call, got %d", source.callCount())
	}
}
