// Package payment charges a tokenized card through an external gateway.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ar-storefront-be/internal/pkg/logger"

	"github.com/shopspring/decimal"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

type Shipping struct {
	Name    string
	Country string
	Line1   string
}

type ChargeRequest struct {
	// Amount is in major units, gateways convert it to what they expect.
	Amount      decimal.Decimal
	Currency    string
	SourceToken string
	Email       string
	Description string
	ItemName    string
	Shipping    Shipping
	FirstName   string
	LastName    string

	// IdempotencyKey must be fresh per request.
	IdempotencyKey string
}

// ChargeResult keeps the gateway's own response body.
type ChargeResult struct {
	ID     string
	Status string
	Raw    json.RawMessage
}

type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// GatewayError carries the message the gateway returned.
type GatewayError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// MinorUnits converts a major-unit amount (12.5) to minor units (1250).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Config selects and configures the gateway.
type Config struct {
	Provider          string
	StripeSecretKey   string
	MidtransServerKey string
	IsProduction      bool
}

// New builds the gateway for cfg.Provider. A provider without credentials
// still yields a gateway, whose charges fail with ErrNotConfigured.
func New(cfg Config, log logger.ILogger) (Gateway, error) {
	var (
		gw  Gateway
		err error
	)
	switch cfg.Provider {
	case "", "stripe":
		gw, err = NewStripeGateway(cfg.StripeSecretKey, log)
	case "midtrans":
		gw, err = NewMidtransGateway(cfg.MidtransServerKey, cfg.IsProduction, log)
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
	if errors.Is(err, ErrNotConfigured) {
		provider := cfg.Provider
		if provider == "" {
			provider = "stripe"
		}
		log.Warn("PAYMENT", "payment gateway has no credentials, charges will fail", map[string]interface{}{"provider": provider})
		return unconfigured{provider: provider}, nil
	}
	return gw, err
}

type unconfigured struct {
	provider string
}

func (u unconfigured) Name() string {
	return u.provider
}

func (u unconfigured) Charge(context.Context, ChargeRequest) (*ChargeResult, error) {
	return nil, &GatewayError{Provider: u.provider, Message: ErrNotConfigured.Error(), Err: ErrNotConfigured}
}
