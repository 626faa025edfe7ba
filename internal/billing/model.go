package billing

import (
	"fmt"
	"time"
)

// Status is the ledger state of a payment record.
type Status string

const (
	StatusCreated  Status = "Created"
	StatusPending  Status = "Pending"
	StatusPaid     Status = "Paid"
	StatusFailed   Status = "Failed"
	StatusRefunded Status = "Refunded"
	StatusExpired  Status = "Expired"
)

var transitions = map[Status][]Status{
	StatusCreated: {StatusPaid, StatusFailed, StatusExpired},
	StatusPending: {StatusPaid, StatusFailed, StatusExpired},
	StatusPaid:    {StatusRefunded, StatusExpired},
}

// CanTransition reports whether moving between two ledger states is allowed.
// Failed, Refunded and Expired are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment is one row of the subscription ledger. Amount is in whole currency
// units; conversion to minor units happens only at the gateway call site.
type Payment struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	OrderID     string     `json:"orderId"`
	PaymentID   string     `json:"paymentId,omitempty"`
	Signature   string     `json:"-"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	Status      Status     `json:"status"`
	MonthKey    string     `json:"monthKey"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	NextDueDate time.Time  `json:"nextDueDate"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MonthKey formats a UTC instant as the "YYYY-MM" ledger month.
func MonthKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// NextDueDate is the 15th of the month after t, at midnight UTC. It is the
// grace deadline stamped on reconciliation-seeded Pending rows; checkout
// orders are due when their paid period ends instead.
func NextDueDate(t time.Time) time.Time {
	t = t.UTC()
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), 15, 0, 0, 0, 0, time.UTC)
}
