package invoices

import (
	"bytes"
	stdmultipart "mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, 1<<20)
	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/api/v1"))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestUploadEndpointCreatesLink(t *testing.T) {
	svc := NewService(NewMemoryRepo(), newFakeBlob())
	r := newTestRouter(t, svc)

	var buf bytes.Buffer
	w := stdmultipart.NewWriter(&buf)
	if err := w.WriteField("userName", "Ravi Kumar"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	fw, err := w.CreateFormFile("invoice", "invoice.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUploadEndpointRequiresOneFile(t *testing.T) {
	svc := NewService(NewMemoryRepo(), newFakeBlob())
	r := newTestRouter(t, svc)

	var buf bytes.Buffer
	w := stdmultipart.NewWriter(&buf)
	if err := w.WriteField("userName", "Ravi"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShareEndpointValidatesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), newFakeBlob())
	svc.Mailer = &recordingMailer{}
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/inv-1/share",
		bytes.NewBufferString(`{"clientEmail":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}
