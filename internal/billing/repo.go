package billing

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("payment not found")
	ErrDuplicate = errors.New("payment already exists for this user and month")
)

type Repo interface {
	Create(ctx context.Context, p Payment) error
	GetByOrderID(ctx context.Context, orderID string) (Payment, error)
	// LatestPaid returns the most recently paid record for the user.
	LatestPaid(ctx context.Context, userID string) (Payment, error)
	// HasRecordForMonth reports whether any ledger row exists for the pair.
	HasRecordForMonth(ctx context.Context, userID, monthKey string) (bool, error)
	MarkPaid(ctx context.Context, orderID, paymentID, signature string, paidAt time.Time) error
	// ListOverdue returns Created or Pending rows whose due date has passed.
	ListOverdue(ctx context.Context, before time.Time) ([]Payment, error)
	Expire(ctx context.Context, id string) error
}
