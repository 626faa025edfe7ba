package billing

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway creates orders through the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay credentials are not configured")
	}
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}, nil
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}

	// Razorpay takes amounts in minor units (paise for INR). The ledger
	// keeps whole units, so the conversion lives only here.
	data := map[string]interface{}{
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  receipt,
	}
	created, err := g.client.Order.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("create razorpay order: %w", err)
	}

	id, ok := created["id"].(string)
	if !ok || id == "" {
		return Order{}, errors.New("razorpay order response missing id")
	}
	order := Order{ID: id, Currency: currency}
	if minor, ok := created["amount"].(float64); ok {
		order.Amount = int64(minor)
	}
	return order, nil
}
