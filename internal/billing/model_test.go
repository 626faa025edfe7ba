package billing

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "2026-03"},
		{time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), "2026-12"},
		// A local-time instant on the far side of a month boundary still
		// resolves to the UTC month.
		{time.Date(2026, 4, 1, 3, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)), "2026-03"},
	}
	for _, tc := range cases {
		if got := MonthKey(tc.in); got != tc.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{
			time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			// Jan 31 must not skip past February.
			time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		if got := NextDueDate(tc.in); !got.Equal(tc.want) {
			t.Errorf("NextDueDate(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusCreated, StatusPaid},
		{StatusCreated, StatusFailed},
		{StatusCreated, StatusExpired},
		{StatusPending, StatusPaid},
		{StatusPending, StatusExpired},
		{StatusPaid, StatusRefunded},
		{StatusPaid, StatusExpired},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPaid, StatusCreated},
		{StatusExpired, StatusPaid},
		{StatusFailed, StatusPaid},
		{StatusRefunded, StatusPaid},
		{StatusCreated, StatusRefunded},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}
