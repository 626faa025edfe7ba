package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

const paymentColumns = `
id, user_id, order_id, payment_id, signature, amount, currency, status,
month_key, period_start, period_end, next_due_date, paid_at, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Payment) error {
	const query = `
INSERT INTO payments (
	id, user_id, order_id, payment_id, signature, amount, currency, status,
	month_key, period_start, period_end, next_due_date, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.OrderID,
		nullableString(p.PaymentID),
		nullableString(p.Signature),
		p.Amount,
		p.Currency,
		string(p.Status),
		p.MonthKey,
		p.PeriodStart,
		p.PeriodEnd,
		p.NextDueDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByOrderID(ctx context.Context, orderID string) (Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 LIMIT 1`
	return scanPayment(r.DB.QueryRowContext(ctx, query, orderID))
}

func (r *PGRepo) LatestPaid(ctx context.Context, userID string) (Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
WHERE user_id = $1 AND status = 'Paid'
ORDER BY paid_at DESC
LIMIT 1`
	return scanPayment(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) HasRecordForMonth(ctx context.Context, userID, monthKey string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payments WHERE user_id = $1 AND month_key = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID, monthKey).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) MarkPaid(ctx context.Context, orderID, paymentID, signature string, paidAt time.Time) error {
	const query = `
UPDATE payments
SET status = 'Paid', payment_id = $2, signature = $3, paid_at = $4, updated_at = now()
WHERE order_id = $1`
	res, err := r.DB.ExecContext(ctx, query, orderID, paymentID, signature, paidAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListOverdue(ctx context.Context, before time.Time) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
WHERE status IN ('Created', 'Pending') AND next_due_date < $1
ORDER BY next_due_date`
	rows, err := r.DB.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PGRepo) Expire(ctx context.Context, id string) error {
	const query = `
UPDATE payments SET status = 'Expired', updated_at = now()
WHERE id = $1 AND status IN ('Created', 'Pending')`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (Payment, error) {
	var (
		p         Payment
		paymentID sql.NullString
		signature sql.NullString
		paidAt    sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.OrderID,
		&paymentID,
		&signature,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.MonthKey,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.NextDueDate,
		&paidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	p.PaymentID = paymentID.String
	p.Signature = signature.String
	if paidAt.Valid {
		value := paidAt.Time
		p.PaidAt = &value
	}
	return p, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
