package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_user_month_unique"})

	err = repo.Create(context.Background(), Payment{ID: "p-1", UserID: "u-1", OrderID: "o-1"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPGRepoLatestPaidScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE user_id").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "order_id", "payment_id", "signature", "amount", "currency",
			"status", "month_key", "period_start", "period_end", "next_due_date",
			"paid_at", "created_at", "updated_at",
		}).AddRow(
			"p-1", "u-1", "o-1", "pay_1", "sig", int64(399), "INR",
			string(StatusPaid), "2026-03", now, now.AddDate(0, 1, 0), now.AddDate(0, 1, 14),
			now, now, now,
		))

	p, err := repo.LatestPaid(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("LatestPaid: %v", err)
	}
	if p.Status != StatusPaid || p.Amount != 399 || p.PaidAt == nil {
		t.Fatalf("unexpected payment: %+v", p)
	}
}

func TestPGRepoMarkPaidMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkPaid(context.Background(), "missing", "pay_1", "sig", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "order_id", "payment_id", "signature", "amount", "currency",
			"status", "month_key", "period_start", "period_end", "next_due_date",
			"paid_at", "created_at", "updated_at",
		}).AddRow(
			"p-1", "u-1", "o-1", nil, nil, int64(399), "INR",
			string(StatusPending), "2026-02", now, now, now.AddDate(0, 0, -2),
			nil, now, now,
		))

	overdue, err := repo.ListOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListOverdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].Status != StatusPending || overdue[0].PaymentID != "" {
		t.Fatalf("unexpected rows: %+v", overdue)
	}
}
