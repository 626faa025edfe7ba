package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adarshsingh05/paperly-backend/internal/shared/metrics"
	"github.com/adarshsingh05/paperly-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrActiveSubscription = errors.New("user already has an active subscription")
	ErrInvalidSignature   = errors.New("payment signature mismatch")
	ErrAlreadyPaid        = errors.New("payment already verified")
)

const (
	DefaultCurrency = "INR"
	// MonthlyAmount is the subscription price in whole currency units.
	MonthlyAmount int64 = 399
)

type Service struct {
	Repo    Repo
	Gateway Gateway
	// Secret signs checkout callbacks; it is the gateway key secret.
	Secret []byte
	Now    func() time.Time
}

func NewService(repo Repo, gateway Gateway, secret []byte) *Service {
	return &Service{
		Repo:    repo,
		Gateway: gateway,
		Secret:  secret,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateOrder opens a gateway order and a Created ledger row for the current
// month. A user with a live subscription, or any existing row for the month,
// is refused.
func (s *Service) CreateOrder(ctx context.Context, userID string, amount int64, currency string) (Payment, error) {
	if strings.TrimSpace(userID) == "" {
		return Payment{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if amount <= 0 {
		return Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	now := s.now()
	if latest, err := s.Repo.LatestPaid(ctx, userID); err == nil {
		if latest.NextDueDate.After(now) {
			return Payment{}, ErrActiveSubscription
		}
	} else if !errors.Is(err, ErrNotFound) {
		return Payment{}, err
	}

	receipt := uuid.NewString()
	order, err := s.Gateway.CreateOrder(ctx, amount, currency, receipt)
	if err != nil {
		return Payment{}, err
	}

	// A checkout order covers exactly one month from now; the next payment
	// is due when that period ends. The 15th-of-next-month due date applies
	// only to reconciliation-seeded Pending rows.
	periodEnd := now.AddDate(0, 1, 0)
	payment := Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		OrderID:     order.ID,
		Amount:      amount,
		Currency:    currency,
		Status:      StatusCreated,
		MonthKey:    MonthKey(now),
		PeriodStart: now,
		PeriodEnd:   periodEnd,
		NextDueDate: periodEnd,
	}
	if err := s.Repo.Create(ctx, payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// VerifyPayment settles a Created order after checkout. The signature is
// checked before any state changes; a record already marked Paid keeps its
// original paid_at and reports a duplicate.
func (s *Service) VerifyPayment(ctx context.Context, userID, orderID, paymentID, signature string) (Payment, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return Payment{}, fmt.Errorf("%w: orderId, paymentId and signature are required", ErrInvalidInput)
	}

	// The signature is authenticated before the ledger is even consulted; a
	// tampered callback learns nothing about the order's state.
	if !VerifySignature(s.Secret, orderID, paymentID, signature) {
		metrics.IncPaymentRejected()
		telemetry.Warn("billing.verify.signature_mismatch", map[string]any{
			"orderId": orderID,
			"userId":  userID,
		})
		return Payment{}, ErrInvalidSignature
	}

	payment, err := s.Repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return Payment{}, err
	}
	if payment.UserID != userID {
		return Payment{}, ErrNotFound
	}
	if payment.Status == StatusPaid {
		metrics.IncPaymentRejected()
		return payment, ErrAlreadyPaid
	}
	if !CanTransition(payment.Status, StatusPaid) {
		metrics.IncPaymentRejected()
		return Payment{}, fmt.Errorf("%w: cannot pay a %s record", ErrInvalidInput, payment.Status)
	}

	paidAt := s.now()
	if err := s.Repo.MarkPaid(ctx, orderID, paymentID, signature, paidAt); err != nil {
		return Payment{}, err
	}

	metrics.IncPaymentVerified()
	payment.Status = StatusPaid
	payment.PaymentID = paymentID
	payment.Signature = signature
	payment.PaidAt = &paidAt
	return payment, nil
}

// SubscriptionInfo is the current standing of a user's subscription.
type SubscriptionInfo struct {
	Active  bool     `json:"active"`
	Expired bool     `json:"expired"`
	Payment *Payment `json:"payment,omitempty"`
}

// CheckSubscription reports whether the user's latest paid record still
// covers the current instant.
func (s *Service) CheckSubscription(ctx context.Context, userID string) (SubscriptionInfo, error) {
	latest, err := s.Repo.LatestPaid(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SubscriptionInfo{}, nil
		}
		return SubscriptionInfo{}, err
	}

	info := SubscriptionInfo{Payment: &latest}
	if latest.NextDueDate.After(s.now()) {
		info.Active = true
	} else {
		info.Expired = true
	}
	return info, nil
}
