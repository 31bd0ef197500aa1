// Package payment wraps the Razorpay client: provider order creation for the
// checkout flow and payment signature verification.
package payment

import (
	"github.com/go-faster/errors"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

var paiseFactor = decimal.NewFromInt(100)

// ProviderOrder is the provider-side order handed back to the client so it
// can open the payment widget.
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// Gateway is the Razorpay adapter. It implements order.SignatureVerifier.
type Gateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// NewGateway creates a Gateway from API credentials.
func NewGateway(keyID, secret string) *Gateway {
	return &Gateway{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

// CreateProviderOrder registers an order with the provider for the given
// rupee amount. The provider expects the amount in paise.
func (g *Gateway) CreateProviderOrder(amount decimal.Decimal) (*ProviderOrder, error) {
	paise := amount.Mul(paiseFactor).Round(0).IntPart()

	data := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
	}
	resp, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create provider order")
	}

	id, ok := resp["id"].(string)
	if !ok {
		return nil, errors.New("provider order response missing id")
	}

	return &ProviderOrder{
		ID:       id,
		Amount:   paise,
		Currency: "INR",
		KeyID:    g.keyID,
	}, nil
}

// Verify checks the payment signature returned by the provider's checkout
// against the shared secret.
func (g *Gateway) Verify(providerOrderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   providerOrderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	}
	return utils.VerifyPaymentSignature(params, signature, g.secret)
}
