package invoices

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("invoice link not found")

type Repo interface {
	Create(ctx context.Context, link Link) error
	GetByID(ctx context.Context, id string) (Link, error)
	ListByUserName(ctx context.Context, userName string) ([]Link, error)
}
