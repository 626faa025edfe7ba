package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adarshsingh05/paperly-backend/internal/shared/metrics"
	"github.com/adarshsingh05/paperly-backend/internal/shared/storage/blob"
	"github.com/adarshsingh05/paperly-backend/internal/shared/telemetry"
	"github.com/adarshsingh05/paperly-backend/internal/shared/util"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotPDF       = errors.New("only PDF files are accepted")
)

// InvoiceMailer sends an invoice link to a client inbox.
type InvoiceMailer interface {
	SendInvoiceLink(ctx context.Context, toEmail, userName, pdfURL string) error
}

type Service struct {
	Repo   Repo
	Blob   blob.Store
	Mailer InvoiceMailer
	Now    func() time.Time
}

func NewService(repo Repo, store blob.Store) *Service {
	return &Service{Repo: repo, Blob: store, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// FileInput is the single decoded PDF part of the legacy upload form.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadAndLink stores the PDF and records the name-to-URL link. A record
// insert failure deletes the just-uploaded blob so neither side dangles.
func (s *Service) UploadAndLink(ctx context.Context, userName string, f FileInput) (Link, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return Link{}, fmt.Errorf("%w: userName is required", ErrInvalidInput)
	}
	if f.Name == "" || len(f.Data) == 0 {
		return Link{}, fmt.Errorf("%w: a PDF file is required", ErrInvalidInput)
	}
	isPDF := strings.EqualFold(strings.TrimSpace(f.ContentType), "application/pdf") ||
		strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
	if !isPDF {
		return Link{}, ErrNotPDF
	}

	now := s.now()
	storedName := util.StoredName(now, f.Name, strings.Join(strings.Fields(userName), "_"))
	publicURL, err := s.Blob.Upload(ctx, storedName, "application/pdf", f.Data)
	if err != nil {
		metrics.IncUploadFailed()
		return Link{}, fmt.Errorf("store invoice: %w", err)
	}

	link := Link{
		ID:         uuid.NewString(),
		UserName:   userName,
		PDFURL:     publicURL,
		UploadedAt: now,
	}
	if err := s.Repo.Create(ctx, link); err != nil {
		metrics.IncUploadFailed()
		if delErr := s.Blob.Delete(ctx, storedName); delErr != nil {
			telemetry.Error("invoices.upload.compensate_failed", map[string]any{
				"err":        delErr.Error(),
				"storedName": storedName,
			})
		}
		return Link{}, fmt.Errorf("save invoice link: %w", err)
	}

	metrics.IncUploadSaved()
	return link, nil
}

// Share emails the stored invoice link to a client address.
func (s *Service) Share(ctx context.Context, id, clientEmail string) (Link, error) {
	clientEmail = strings.ToLower(strings.TrimSpace(clientEmail))
	if !strings.Contains(clientEmail, "@") {
		return Link{}, fmt.Errorf("%w: valid clientEmail is required", ErrInvalidInput)
	}
	if s.Mailer == nil {
		return Link{}, errors.New("mailer not configured")
	}

	link, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Link{}, err
	}
	if err := s.Mailer.SendInvoiceLink(ctx, clientEmail, link.UserName, link.PDFURL); err != nil {
		return Link{}, fmt.Errorf("send invoice mail: %w", err)
	}
	return link, nil
}
