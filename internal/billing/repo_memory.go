package billing

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	payments map[string]Payment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{payments: make(map[string]Payment)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payments {
		if existing.UserID == p.UserID && existing.MonthKey == p.MonthKey {
			return ErrDuplicate
		}
		if existing.OrderID == p.OrderID {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.payments[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByOrderID(ctx context.Context, orderID string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *MemoryRepo) LatestPaid(ctx context.Context, userID string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		found bool
		best  Payment
	)
	for _, p := range r.payments {
		if p.UserID != userID || p.Status != StatusPaid || p.PaidAt == nil {
			continue
		}
		if !found || p.PaidAt.After(*best.PaidAt) {
			best = p
			found = true
		}
	}
	if !found {
		return Payment{}, ErrNotFound
	}
	return best, nil
}

func (r *MemoryRepo) HasRecordForMonth(ctx context.Context, userID, monthKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.UserID == userID && p.MonthKey == monthKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) MarkPaid(ctx context.Context, orderID, paymentID, signature string, paidAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.payments {
		if p.OrderID == orderID {
			p.Status = StatusPaid
			p.PaymentID = paymentID
			p.Signature = signature
			p.PaidAt = &paidAt
			p.UpdatedAt = time.Now().UTC()
			r.payments[id] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) ListOverdue(ctx context.Context, before time.Time) ([]Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var overdue []Payment
	for _, p := range r.payments {
		if (p.Status == StatusCreated || p.Status == StatusPending) && p.NextDueDate.Before(before) {
			overdue = append(overdue, p)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].NextDueDate.Before(overdue[j].NextDueDate)
	})
	return overdue, nil
}

func (r *MemoryRepo) Expire(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || (p.Status != StatusCreated && p.Status != StatusPending) {
		return ErrNotFound
	}
	p.Status = StatusExpired
	p.UpdatedAt = time.Now().UTC()
	r.payments[id] = p
	return nil
}
