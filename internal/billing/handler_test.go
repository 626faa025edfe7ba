package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(t, svc)

	w := postJSON(t, r, "/api/v1/billing/orders", map[string]any{"amount": 399, "currency": "INR"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Order Payment `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Order.OrderID == "" || resp.Order.Status != StatusCreated {
		t.Fatalf("unexpected order: %+v", resp.Order)
	}
}

func TestCreateOrderEndpointRejectsZeroAmount(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(t, svc)

	w := postJSON(t, r, "/api/v1/billing/orders", map[string]any{"amount": 0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestVerifyEndpointRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(t, svc)

	w := postJSON(t, r, "/api/v1/billing/orders", map[string]any{"amount": 399})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	var created struct {
		Order Payment `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sig := signCheckout(testSecret, created.Order.OrderID, "pay_1")
	w = postJSON(t, r, "/api/v1/billing/verify", map[string]string{
		"orderId":   created.Order.OrderID,
		"paymentId": "pay_1",
		"signature": sig,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	// Replay is a duplicate.
	w = postJSON(t, r, "/api/v1/billing/verify", map[string]string{
		"orderId":   created.Order.OrderID,
		"paymentId": "pay_1",
		"signature": sig,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", w.Code)
	}
}

func TestVerifyEndpointBadSignature(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(t, svc)

	w := postJSON(t, r, "/api/v1/billing/orders", map[string]any{"amount": 399})
	var created struct {
		Order Payment `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w = postJSON(t, r, "/api/v1/billing/verify", map[string]string{
		"orderId":   created.Order.OrderID,
		"paymentId": "pay_1",
		"signature": "deadbeef",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubscriptionEndpoint(t *testing.T) {
	svc, repo, _ := newTestService()
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/subscription", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var info SubscriptionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if info.Active || info.Expired {
		t.Fatalf("expected no subscription, got %+v", info)
	}

	paidAt := time.Now().UTC()
	if err := repo.Create(context.Background(), Payment{
		ID: "p-1", UserID: "user-1", OrderID: "o-1", Status: StatusPaid,
		MonthKey: MonthKey(paidAt), NextDueDate: paidAt.AddDate(0, 1, 0), PaidAt: &paidAt,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/billing/subscription", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !info.Active {
		t.Fatalf("expected active subscription, got %+v", info)
	}
}

func TestRequireSubscriptionMiddleware(t *testing.T) {
	svc, repo, _ := newTestService()
	gin.SetMode(gin.TestMode)

	newRouter := func(userID string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("userId", userID)
			c.Next()
		})
		premium := r.Group("/premium", RequireSubscription(svc))
		premium.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	hit := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/premium/ping", nil))
		return w.Code
	}

	if code := hit(newRouter("user-none")); code != http.StatusForbidden {
		t.Fatalf("no subscription: expected 403, got %d", code)
	}

	now := time.Now().UTC()
	paidAt := now.AddDate(0, -2, 0)
	if err := repo.Create(context.Background(), Payment{
		ID: "p-lapsed", UserID: "user-lapsed", OrderID: "o-l", Status: StatusPaid,
		MonthKey: MonthKey(paidAt), NextDueDate: now.AddDate(0, -1, 0), PaidAt: &paidAt,
	}); err != nil {
		t.Fatalf("seed lapsed: %v", err)
	}
	if code := hit(newRouter("user-lapsed")); code != http.StatusPaymentRequired {
		t.Fatalf("lapsed: expected 402, got %d", code)
	}

	freshPaid := now.Add(-time.Hour)
	if err := repo.Create(context.Background(), Payment{
		ID: "p-active", UserID: "user-active", OrderID: "o-a", Status: StatusPaid,
		MonthKey: MonthKey(freshPaid), NextDueDate: now.AddDate(0, 1, 0), PaidAt: &freshPaid,
	}); err != nil {
		t.Fatalf("seed active: %v", err)
	}
	if code := hit(newRouter("user-active")); code != http.StatusOK {
		t.Fatalf("active: expected 200, got %d", code)
	}
}
