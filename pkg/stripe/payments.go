package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/ephemeralkey"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

// The mobile payment sheet pins this ephemeral key API version.
const ephemeralKeyAPIVersion = "2020-08-27"

// PaymentSheet carries everything the mobile client needs to present the
// gateway confirmation UI for one payment intent.
type PaymentSheet struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	PublishableKey  string `json:"publishable_key"`
	EphemeralKey    string `json:"ephemeral_key"`
	CustomerID      string `json:"customer_id"`
	MerchantName    string `json:"merchant_name"`
}

// EnsureCustomer returns the existing gateway customer or creates one for the
// given email.
func (c *Client) EnsureCustomer(ctx context.Context, existingID *string, email string) (string, error) {
	if existingID != nil && *existingID != "" {
		return *existingID, nil
	}
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	created, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("creating stripe customer: %w", err)
	}
	return created.ID, nil
}

// CreatePaymentSheet initializes a payment intent for the amount (in minor
// units) plus the ephemeral key the confirmation UI requires.
func (c *Client) CreatePaymentSheet(ctx context.Context, customerID string, amountMinorUnits int64) (*PaymentSheet, error) {
	if amountMinorUnits <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %d", amountMinorUnits)
	}

	keyParams := &stripe.EphemeralKeyParams{
		Params:        stripe.Params{Context: ctx},
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(ephemeralKeyAPIVersion),
	}
	key, err := ephemeralkey.New(keyParams)
	if err != nil {
		return nil, fmt.Errorf("creating ephemeral key: %w", err)
	}

	intentParams := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountMinorUnits),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
	}
	intent, err := paymentintent.New(intentParams)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	return &PaymentSheet{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		PublishableKey:  c.PublishableKey(),
		EphemeralKey:    key.Secret,
		CustomerID:      customerID,
		MerchantName:    c.MerchantName(),
	}, nil
}

// PaymentVerification is the state of a payment intent as the gateway reports
// it. Callers match the amount and customer against their own records rather
// than trusting whatever intent id the client hands over.
type PaymentVerification struct {
	Succeeded        bool
	AmountMinorUnits int64
	CustomerID       string
}

// VerifyPayment retrieves the intent and reports its outcome, amount, and
// owning customer. A canceled or failed intent reads as not succeeded.
func (c *Client) VerifyPayment(ctx context.Context, paymentIntentID string) (*PaymentVerification, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	intent, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent: %w", err)
	}
	verification := &PaymentVerification{
		Succeeded:        intent.Status == stripe.PaymentIntentStatusSucceeded,
		AmountMinorUnits: intent.Amount,
	}
	if intent.Customer != nil {
		verification.CustomerID = intent.Customer.ID
	}
	return verification, nil
}
