package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// ErrGateway wraps upstream Razorpay failures.
var ErrGateway = errors.New("payment gateway error")

// Gateway wraps the Razorpay Orders API and checkout signature verification.
type Gateway struct {
	client    *razorpay.Client
	keySecret string
	logger    *zap.Logger
}

// NewGateway creates a Razorpay gateway adapter.
func NewGateway(keyID, keySecret string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
		logger:    logger,
	}
}

// CreateOrder creates a Razorpay order for the given amount in major units
// (rupees). Razorpay expects minor units, so the amount is multiplied by 100.
// Returns the raw order object as the API reports it.
func (g *Gateway) CreateOrder(amountMajorUnits int, currency string) (map[string]interface{}, error) {
	if currency == "" {
		currency = "INR"
	}
	data := map[string]interface{}{
		"amount":   amountMajorUnits * 100,
		"currency": currency,
		"receipt":  newReceipt(time.Now()),
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("razorpay order create failed", zap.Error(err), zap.Int("amount", amountMajorUnits))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return order, nil
}

// VerifySignature checks a checkout callback signature against this gateway's key secret.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, g.keySecret)
}

// VerifySignature reports whether signature is the hex HMAC-SHA256 of
// "orderID|paymentID" keyed by secret, as Razorpay computes it after checkout.
// The comparison is constant-time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// newReceipt returns a timestamp-derived receipt identifier for an order.
func newReceipt(t time.Time) string {
	return fmt.Sprintf("rcpt_%d", t.UnixMilli())
}
