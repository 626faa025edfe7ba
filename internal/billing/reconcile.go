package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adarshsingh05/paperly-backend/internal/shared/metrics"
	"github.com/adarshsingh05/paperly-backend/internal/shared/telemetry"
)

// UserDirectory lists every user the reconciliation pass must consider.
type UserDirectory interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// ReconcileJob runs the monthly ledger sweep: expire overdue open records,
// then open a Pending row for every user without one this month.
type ReconcileJob struct {
	Users UserDirectory
	Repo  Repo
	Now   func() time.Time
}

func NewReconcileJob(users UserDirectory, repo Repo) *ReconcileJob {
	return &ReconcileJob{Users: users, Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// ReconcileSummary counts what one sweep did.
type ReconcileSummary struct {
	Expired        int
	PendingCreated int
	Errors         int
}

// Run performs one sweep. Item failures are logged and counted, never fatal:
// one bad row must not stall the rest of the ledger.
func (j *ReconcileJob) Run(ctx context.Context) (ReconcileSummary, error) {
	now := j.Now()
	monthKey := MonthKey(now)
	var summary ReconcileSummary

	overdue, err := j.Repo.ListOverdue(ctx, now)
	if err != nil {
		return summary, err
	}
	for _, p := range overdue {
		if err := j.Repo.Expire(ctx, p.ID); err != nil {
			summary.Errors++
			telemetry.Error("billing.reconcile.expire_failed", map[string]any{
				"err":       err.Error(),
				"paymentId": p.ID,
			})
			continue
		}
		summary.Expired++
	}

	userIDs, err := j.Users.ListIDs(ctx)
	if err != nil {
		return summary, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	for _, userID := range userIDs {
		exists, err := j.Repo.HasRecordForMonth(ctx, userID, monthKey)
		if err != nil {
			summary.Errors++
			telemetry.Error("billing.reconcile.lookup_failed", map[string]any{
				"err":    err.Error(),
				"userId": userID,
			})
			continue
		}
		if exists {
			continue
		}

		pending := Payment{
			ID:          uuid.NewString(),
			UserID:      userID,
			OrderID:     "pending-" + uuid.NewString(),
			Amount:      MonthlyAmount,
			Currency:    DefaultCurrency,
			Status:      StatusPending,
			MonthKey:    monthKey,
			PeriodStart: monthStart,
			PeriodEnd:   monthEnd,
			NextDueDate: NextDueDate(now),
		}
		if err := j.Repo.Create(ctx, pending); err != nil {
			summary.Errors++
			telemetry.Error("billing.reconcile.create_failed", map[string]any{
				"err":    err.Error(),
				"userId": userID,
			})
			continue
		}
		summary.PendingCreated++
	}

	metrics.IncReconcileRun()
	telemetry.Info("billing.reconcile.completed", map[string]any{
		"monthKey":       monthKey,
		"expired":        summary.Expired,
		"pendingCreated": summary.PendingCreated,
		"errors":         summary.Errors,
	})
	return summary, nil
}
