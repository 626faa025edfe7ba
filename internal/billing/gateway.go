package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is the gateway-side order a client completes checkout against.
type Order struct {
	ID       string
	Amount   int64 // minor units, as the gateway reports it
	Currency string
}

// Gateway creates payment orders with the upstream provider. Amount is in
// whole currency units; implementations convert to minor units themselves.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error)
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 over
// "orderID|paymentID", hex encoded, compared in constant time.
func VerifySignature(secret []byte, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
