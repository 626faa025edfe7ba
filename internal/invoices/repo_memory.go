package invoices

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	links map[string]Link
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{links: make(map[string]Link)}
}

func (r *MemoryRepo) Create(ctx context.Context, link Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.ID] = link
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Link, error) {
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.links[id]
	if !ok {
		return Link{}, ErrNotFound
	}
	return link, nil
}

func (r *MemoryRepo) ListByUserName(ctx context.Context, userName string) ([]Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var links []Link
	for _, link := range r.links {
		if link.UserName == userName {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].UploadedAt.After(links[j].UploadedAt)
	})
	return links, nil
}
