package documents

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// ListQuery narrows and orders an owner's document listing.
type ListQuery struct {
	OwnerEmail   string
	Status       Status
	DocumentType string
	SubjectName  string
	SortBy       string
	SortDesc     bool
	Page         int
	Limit        int
}

type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, q ListQuery) ([]Document, int, error)
	ListBySubject(ctx context.Context, subjectEmail string) ([]Document, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkSigned(ctx context.Context, id, storageURL string, at time.Time) error
	Archive(ctx context.Context, id string, at time.Time) error
}
