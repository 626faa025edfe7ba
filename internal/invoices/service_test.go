package invoices

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: make(map[string][]byte)}
}

func (f *fakeBlob) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = append([]byte(nil), data...)
	return "https://blob.test/bucket/" + name, nil
}

func (f *fakeBlob) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, name)
	delete(f.objects, name)
	return nil
}

type failingRepo struct {
	*MemoryRepo
}

func (r *failingRepo) Create(ctx context.Context, link Link) error {
	return errors.New("insert failed")
}

func TestUploadAndLinkDerivesStoredName(t *testing.T) {
	store := newFakeBlob()
	svc := NewService(NewMemoryRepo(), store)
	fixed := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	link, err := svc.UploadAndLink(context.Background(), "Ravi Kumar", FileInput{
		Name:        "feb invoice.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("UploadAndLink: %v", err)
	}
	if !strings.HasPrefix(link.PDFURL, "https://blob.test/bucket/Ravi_Kumar-") {
		t.Fatalf("unexpected pdf url %q", link.PDFURL)
	}
	if !strings.HasSuffix(link.PDFURL, "-feb_invoice.pdf") {
		t.Fatalf("expected sanitized original name in %q", link.PDFURL)
	}
	if link.UploadedAt != fixed {
		t.Fatalf("expected uploadedAt %v, got %v", fixed, link.UploadedAt)
	}
}

func TestUploadAndLinkRejectsNonPDF(t *testing.T) {
	svc := NewService(NewMemoryRepo(), newFakeBlob())
	_, err := svc.UploadAndLink(context.Background(), "Ravi", FileInput{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hello"),
	})
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestUploadAndLinkCompensatesOnRecordFailure(t *testing.T) {
	store := newFakeBlob()
	svc := NewService(&failingRepo{NewMemoryRepo()}, store)

	_, err := svc.UploadAndLink(context.Background(), "Ravi", FileInput{
		Name:        "invoice.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected compensating delete, got %v", store.deletes)
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected no blobs left, got %d", len(store.objects))
	}
}

type recordingMailer struct {
	to  []string
	url []string
}

func (m *recordingMailer) SendInvoiceLink(ctx context.Context, toEmail, userName, pdfURL string) error {
	m.to = append(m.to, toEmail)
	m.url = append(m.url, pdfURL)
	return nil
}

func TestShareEmailsClient(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, newFakeBlob())
	mailer := &recordingMailer{}
	svc.Mailer = mailer
	ctx := context.Background()

	seed := Link{ID: "inv-1", UserName: "Ravi", PDFURL: "https://blob.test/bucket/x.pdf", UploadedAt: time.Now()}
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	link, err := svc.Share(ctx, "inv-1", "Client@Example.com")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if link.ID != "inv-1" {
		t.Fatalf("unexpected link %+v", link)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "client@example.com" {
		t.Fatalf("expected mail to normalized client address, got %v", mailer.to)
	}
}

func TestShareUnknownInvoiceIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(), newFakeBlob())
	svc.Mailer = &recordingMailer{}
	_, err := svc.Share(context.Background(), "missing", "client@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
