package documents

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
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotPDF            = errors.New("only PDF files are accepted")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// LinkMailer notifies a document's subject that a copy is waiting for them.
type LinkMailer interface {
	SendDocumentLink(ctx context.Context, toEmail, toName, title, url string) error
}

type Service struct {
	Repo   Repo
	Blob   blob.Store
	Mailer LinkMailer
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

// UploadMeta is the shared metadata for every file in a bulk upload.
type UploadMeta struct {
	DocumentType string
	SubjectName  string
	SubjectEmail string
	Title        string
	Description  string
	Tags         []string
	ExpiresAt    *time.Time
}

// FileInput is one decoded file part.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileResult records the outcome for a single file in a bulk upload.
type FileResult struct {
	FileName string    `json:"fileName"`
	Saved    bool      `json:"saved"`
	Error    string    `json:"error,omitempty"`
	Document *Document `json:"document,omitempty"`
}

func (m UploadMeta) validate() error {
	if !ValidType(m.DocumentType) {
		return fmt.Errorf("%w: unknown documentType %q", ErrInvalidInput, m.DocumentType)
	}
	if strings.TrimSpace(m.SubjectName) == "" {
		return fmt.Errorf("%w: employeeName is required", ErrInvalidInput)
	}
	if !strings.Contains(m.SubjectEmail, "@") {
		return fmt.Errorf("%w: valid employeeEmail is required", ErrInvalidInput)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: documentTitle is required", ErrInvalidInput)
	}
	return nil
}

// IsPDF accepts a file when either the declared content type or the filename
// extension says PDF, mirroring lenient browser multipart encoders.
func IsPDF(f FileInput) bool {
	if strings.EqualFold(strings.TrimSpace(f.ContentType), "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}

// BulkUpload stores each file independently: one bad file never blocks its
// siblings. A record insert failure triggers a compensating blob delete so
// storage and metadata stay consistent.
func (s *Service) BulkUpload(ctx context.Context, ownerEmail string, meta UploadMeta, files []FileInput) ([]FileResult, error) {
	if err := meta.validate(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", ErrInvalidInput)
	}

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.uploadOne(ctx, ownerEmail, meta, f))
	}
	return results, nil
}

func (s *Service) uploadOne(ctx context.Context, ownerEmail string, meta UploadMeta, f FileInput) FileResult {
	started := s.now()
	result := FileResult{FileName: f.Name}

	if f.Name == "" {
		metrics.IncUploadFailed()
		result.Error = "file name is required"
		return result
	}
	if !IsPDF(f) {
		metrics.IncUploadFailed()
		result.Error = ErrNotPDF.Error()
		return result
	}
	if len(f.Data) == 0 {
		metrics.IncUploadFailed()
		result.Error = "file is empty"
		return result
	}

	storedName := util.StoredName(started, f.Name, keyPart(ownerEmail), keyPart(meta.SubjectName))
	publicURL, err := s.Blob.Upload(ctx, storedName, "application/pdf", f.Data)
	if err != nil {
		metrics.IncUploadFailed()
		telemetry.Error("documents.upload.blob_failed", map[string]any{
			"err":        err.Error(),
			"storedName": storedName,
		})
		result.Error = "failed to store file"
		return result
	}

	doc := Document{
		ID:           uuid.NewString(),
		OwnerEmail:   ownerEmail,
		DocumentType: meta.DocumentType,
		SubjectName:  strings.TrimSpace(meta.SubjectName),
		SubjectEmail: strings.ToLower(strings.TrimSpace(meta.SubjectEmail)),
		StorageURL:   publicURL,
		StoredName:   storedName,
		Title:        strings.TrimSpace(meta.Title),
		Description:  strings.TrimSpace(meta.Description),
		Status:       StatusDraft,
		Tags:         meta.Tags,
		IsActive:     true,
		ExpiresAt:    meta.ExpiresAt,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.IncUploadFailed()
		telemetry.Error("documents.upload.record_failed", map[string]any{
			"err":        err.Error(),
			"storedName": storedName,
		})
		if delErr := s.Blob.Delete(ctx, storedName); delErr != nil {
			telemetry.Error("documents.upload.compensate_failed", map[string]any{
				"err":        delErr.Error(),
				"storedName": storedName,
			})
		}
		result.Error = "failed to save document record"
		return result
	}

	metrics.IncUploadSaved()
	metrics.ObserveUploadDurationMs(float64(time.Since(started).Milliseconds()))
	result.Saved = true
	result.Document = &doc
	return result
}

// List returns one page of the owner's documents plus the unpaged total.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Document, int, error) {
	if strings.TrimSpace(q.OwnerEmail) == "" {
		return nil, 0, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if q.Status != "" && !ValidStatus(q.Status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	if q.DocumentType != "" && !ValidType(q.DocumentType) {
		return nil, 0, fmt.Errorf("%w: unknown documentType %q", ErrInvalidInput, q.DocumentType)
	}
	return s.Repo.List(ctx, q)
}

// Get is owner-scoped: a document owned by someone else reports not-found so
// IDs cannot be probed for existence.
func (s *Service) Get(ctx context.Context, ownerEmail, id string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.OwnerEmail != ownerEmail {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// Send moves a draft to Sent and, when a mailer is wired, emails the subject
// a link. Mail failures are logged but do not roll back the transition.
func (s *Service) Send(ctx context.Context, ownerEmail, id string) (Document, error) {
	doc, err := s.Get(ctx, ownerEmail, id)
	if err != nil {
		return Document{}, err
	}
	if !CanTransition(doc.Status, StatusSent) {
		return Document{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, StatusSent)
	}

	now := s.now()
	if err := s.Repo.MarkSent(ctx, id, now); err != nil {
		return Document{}, err
	}
	doc.Status = StatusSent
	doc.SentAt = &now

	if s.Mailer != nil && doc.SubjectEmail != "" {
		if err := s.Mailer.SendDocumentLink(ctx, doc.SubjectEmail, doc.SubjectName, doc.Title, doc.StorageURL); err != nil {
			telemetry.Error("documents.send.mail_failed", map[string]any{
				"err":        err.Error(),
				"documentId": doc.ID,
			})
		}
	}
	return doc, nil
}

// Archive retires a document from any live state.
func (s *Service) Archive(ctx context.Context, ownerEmail, id string) (Document, error) {
	doc, err := s.Get(ctx, ownerEmail, id)
	if err != nil {
		return Document{}, err
	}
	if !CanTransition(doc.Status, StatusArchived) {
		return Document{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, StatusArchived)
	}

	now := s.now()
	if err := s.Repo.Archive(ctx, id, now); err != nil {
		return Document{}, err
	}
	doc.Status = StatusArchived
	doc.IsActive = false
	return doc, nil
}

// ListForSubject returns the active documents addressed to a counterparty.
func (s *Service) ListForSubject(ctx context.Context, subjectEmail string) ([]Document, error) {
	subjectEmail = strings.ToLower(strings.TrimSpace(subjectEmail))
	if !strings.Contains(subjectEmail, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	return s.Repo.ListBySubject(ctx, subjectEmail)
}

// ReplaceWithSigned swaps the stored blob for the counterparty's signed copy
// under the same stored name, then moves the record to Signed. The old blob
// is deleted first; a delete failure is logged and does not abort the swap.
func (s *Service) ReplaceWithSigned(ctx context.Context, id string, f FileInput) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !CanTransition(doc.Status, StatusSigned) {
		return Document{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, StatusSigned)
	}
	if !IsPDF(f) {
		return Document{}, ErrNotPDF
	}
	if len(f.Data) == 0 {
		return Document{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	storedName := doc.StoredName
	if storedName == "" {
		storedName = util.StoredNameFromURL(doc.StorageURL)
	}

	if err := s.Blob.Delete(ctx, storedName); err != nil && !errors.Is(err, blob.ErrNotFound) {
		telemetry.Error("documents.signed.delete_failed", map[string]any{
			"err":        err.Error(),
			"storedName": storedName,
		})
	}

	publicURL, err := s.Blob.Upload(ctx, storedName, "application/pdf", f.Data)
	if err != nil {
		return Document{}, fmt.Errorf("store signed copy: %w", err)
	}

	now := s.now()
	if err := s.Repo.MarkSigned(ctx, id, publicURL, now); err != nil {
		return Document{}, err
	}
	doc.Status = StatusSigned
	doc.StorageURL = publicURL
	doc.SignedAt = &now
	return doc, nil
}

func keyPart(s string) string {
	if at := strings.IndexByte(s, '@'); at > 0 {
		s = s[:at]
	}
	return strings.Join(strings.Fields(s), "_")
}
