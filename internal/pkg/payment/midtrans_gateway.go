package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"ar-storefront-be/internal/pkg/logger"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

const midtransModule = "PAYMENT_MIDTRANS"

// MidtransGateway charges card tokens through the Core API. Midtrans settles
// in IDR, which has no minor unit, so amounts are rounded to whole units.
type MidtransGateway struct {
	serverKey string
	env       midtrans.EnvironmentType
	logger    logger.ILogger
}

func NewMidtransGateway(serverKey string, production bool, log logger.ILogger) (*MidtransGateway, error) {
	if serverKey == "" {
		return nil, ErrNotConfigured
	}
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	return &MidtransGateway{serverKey: serverKey, env: env, logger: log}, nil
}

func (g *MidtransGateway) Name() string {
	return "midtrans"
}

func buildChargeReq(req ChargeRequest) *coreapi.ChargeReq {
	gross := req.Amount.Round(0).IntPart()
	return &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeCreditCard,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.IdempotencyKey,
			GrossAmt: gross,
		},
		CreditCard: &coreapi.CreditCardDetails{
			TokenID: req.SourceToken,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			ShipAddr: &midtrans.CustomerAddress{
				FName:       req.FirstName,
				LName:       req.LastName,
				Address:     req.Shipping.Line1,
				CountryCode: req.Shipping.Country,
			},
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.IdempotencyKey,
				Name:  req.ItemName,
				Price: gross,
				Qty:   1,
			},
		},
	}
}

func (g *MidtransGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c coreapi.Client
	c.New(g.serverKey, g.env)
	c.Options.SetPaymentIdempotencyKey(req.IdempotencyKey)

	resp, midErr := c.ChargeTransaction(buildChargeReq(req))
	if midErr != nil {
		g.logger.Error(midtransModule, "charge failed", map[string]interface{}{
			"order_id": req.IdempotencyKey,
			"error":    midErr.GetMessage(),
		})
		return nil, &GatewayError{
			Provider: "midtrans",
			Code:     fmt.Sprint(midErr.GetStatusCode()),
			Message:  midErr.GetMessage(),
			Err:      midErr,
		}
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("midtrans: failed to encode response: %w", err)
	}

	g.logger.Info(midtransModule, "charge created", map[string]interface{}{
		"transaction_id": resp.TransactionID,
		"status":         resp.TransactionStatus,
	})
	return &ChargeResult{ID: resp.TransactionID, Status: resp.TransactionStatus, Raw: raw}, nil
}
