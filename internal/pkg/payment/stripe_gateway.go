package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ar-storefront-be/internal/pkg/logger"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/charge"
	"github.com/stripe/stripe-go/v81/customer"
)

const stripeModule = "PAYMENT_STRIPE"

type StripeGateway struct {
	logger logger.ILogger
}

func NewStripeGateway(secretKey string, log logger.ILogger) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	stripe.Key = secretKey
	return &StripeGateway{logger: log}, nil
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

// Charge creates a customer from the card token, then charges that customer.
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	customerParams := &stripe.CustomerParams{
		Email:  stripe.String(req.Email),
		Source: stripe.String(req.SourceToken),
	}
	customerParams.Context = ctx
	customerParams.SetIdempotencyKey(req.IdempotencyKey + "-customer")

	cus, err := customer.New(customerParams)
	if err != nil {
		g.logger.Error(stripeModule, "failed to create customer", map[string]interface{}{"error": err.Error()})
		return nil, stripeError("failed to create customer", err)
	}

	params := &stripe.ChargeParams{
		Amount:       stripe.Int64(MinorUnits(req.Amount)),
		Currency:     stripe.String(strings.ToLower(req.Currency)),
		Customer:     stripe.String(cus.ID),
		ReceiptEmail: stripe.String(req.Email),
		Description:  stripe.String(req.Description),
		Shipping: &stripe.ShippingDetailsParams{
			Name: stripe.String(req.Shipping.Name),
			Address: &stripe.AddressParams{
				Country: stripe.String(req.Shipping.Country),
				Line1:   stripe.String(req.Shipping.Line1),
			},
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	ch, err := charge.New(params)
	if err != nil {
		g.logger.Error(stripeModule, "charge failed", map[string]interface{}{
			"customer": cus.ID,
			"error":    err.Error(),
		})
		return nil, stripeError("failed to create charge", err)
	}

	raw, err := rawStripeResponse(ch)
	if err != nil {
		return nil, err
	}

	g.logger.Info(stripeModule, "charge created", map[string]interface{}{
		"charge_id": ch.ID,
		"amount":    ch.Amount,
		"status":    string(ch.Status),
	})
	return &ChargeResult{ID: ch.ID, Status: string(ch.Status), Raw: raw}, nil
}

func rawStripeResponse(ch *stripe.Charge) (json.RawMessage, error) {
	if ch.LastResponse != nil && len(ch.LastResponse.RawJSON) > 0 {
		return ch.LastResponse.RawJSON, nil
	}
	raw, err := json.Marshal(ch)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to encode charge: %w", err)
	}
	return raw, nil
}

func stripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &GatewayError{Provider: "stripe", Code: string(se.Code), Message: se.Msg, Err: err}
	}
	return &GatewayError{Provider: "stripe", Message: fmt.Sprintf("stripe: %s: %v", op, err), Err: err}
}
