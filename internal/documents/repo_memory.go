package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Document
	for _, doc := range r.docs {
		if doc.OwnerEmail != q.OwnerEmail {
			continue
		}
		if q.Status != "" && doc.Status != q.Status {
			continue
		}
		if q.DocumentType != "" && doc.DocumentType != q.DocumentType {
			continue
		}
		if q.SubjectName != "" && !strings.Contains(strings.ToLower(doc.SubjectName), strings.ToLower(q.SubjectName)) {
			continue
		}
		matched = append(matched, doc)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "employeeName":
			less = matched[i].SubjectName < matched[j].SubjectName
		case "status":
			less = matched[i].Status < matched[j].Status
		case "documentType":
			less = matched[i].DocumentType < matched[j].DocumentType
		case "updatedAt":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if q.SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return append([]Document(nil), matched[start:end]...), total, nil
}

func (r *MemoryRepo) ListBySubject(ctx context.Context, subjectEmail string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []Document
	for _, doc := range r.docs {
		if doc.SubjectEmail == subjectEmail && doc.IsActive {
			matched = append(matched, doc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *MemoryRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(doc *Document) {
		doc.Status = StatusSent
		doc.SentAt = &at
	})
}

func (r *MemoryRepo) MarkSigned(ctx context.Context, id, storageURL string, at time.Time) error {
	return r.update(ctx, id, func(doc *Document) {
		doc.Status = StatusSigned
		doc.StorageURL = storageURL
		doc.SignedAt = &at
	})
}

func (r *MemoryRepo) Archive(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(doc *Document) {
		doc.Status = StatusArchived
		doc.IsActive = false
		doc.UpdatedAt = at
	})
}

func (r *MemoryRepo) update(ctx context.Context, id string, mutate func(*Document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	mutate(&doc)
	doc.UpdatedAt = time.Now().UTC()
	r.docs[id] = doc
	return nil
}
