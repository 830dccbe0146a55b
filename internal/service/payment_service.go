package service

import (
	"context"
	"errors"
	"strings"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/mailer"
	"ar-storefront-be/internal/pkg/metrics"
	"ar-storefront-be/internal/pkg/payment"
	"ar-storefront-be/pkg/events"

	"github.com/google/uuid"
)

const paymentModule = "PAYMENT"

var ErrInvalidAmount = errors.New("product.price must be greater than 0")

type IPaymentService interface {
	Charge(ctx context.Context, req *dto.PaymentRequest) (*payment.ChargeResult, error)
}

type paymentService struct {
	gateway      payment.Gateway
	currency     string
	metrics      *metrics.Metrics
	emailService mailer.IEmailService
	publisher    IPublisherService
	logger       logger.ILogger
}

func NewPaymentService(
	gateway payment.Gateway,
	currency string,
	m *metrics.Metrics,
	emailService mailer.IEmailService,
	publisher IPublisherService,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		gateway:      gateway,
		currency:     currency,
		metrics:      m,
		emailService: emailService,
		publisher:    publisher,
		logger:       log,
	}
}

func (s *paymentService) Charge(ctx context.Context, req *dto.PaymentRequest) (*payment.ChargeResult, error) {
	if !req.Product.Price.IsPositive() {
		return nil, ErrInvalidAmount
	}

	card := req.Token.Card
	chargeReq := payment.ChargeRequest{
		Amount:      req.Product.Price,
		Currency:    s.currency,
		SourceToken: req.Token.Id,
		Email:       req.Token.Email,
		Description: "Purchase of " + req.Product.Name,
		ItemName:    req.Product.Name,
		Shipping: payment.Shipping{
			Name:    strings.TrimSpace(card.FirstName + " " + card.LastName),
			Country: card.Country,
			Line1:   card.Address,
		},
		FirstName:      card.FirstName,
		LastName:       card.LastName,
		IdempotencyKey: uuid.NewString(),
	}

	result, err := s.gateway.Charge(ctx, chargeReq)
	s.metrics.Charge(s.gateway.Name(), err == nil)
	if err != nil {
		s.logger.Error(paymentModule, "charge failed", map[string]interface{}{
			"gateway":         s.gateway.Name(),
			"idempotency_key": chargeReq.IdempotencyKey,
			"error":           err.Error(),
		})
		return nil, err
	}

	s.logger.Info(paymentModule, "charge succeeded", map[string]interface{}{
		"gateway":   s.gateway.Name(),
		"charge_id": result.ID,
		"status":    result.Status,
	})
	publishOrWarn(ctx, s.publisher, s.logger, paymentModule, events.New(events.PaymentCharged, map[string]interface{}{
		"charge_id": result.ID,
		"gateway":   s.gateway.Name(),
		"product":   req.Product.Name,
		"amount":    req.Product.Price.String(),
		"currency":  s.currency,
	}))

	receipt := mailer.Receipt{
		ChargeID:    result.ID,
		Description: chargeReq.Description,
		Amount:      req.Product.Price.StringFixed(2),
		Currency:    strings.ToUpper(s.currency),
	}
	go func() {
		if err := s.emailService.SendReceipt(chargeReq.Email, receipt); err != nil {
			s.logger.Warn(paymentModule, "receipt mail not sent", map[string]interface{}{"error": err.Error()})
		}
	}()

	return result, nil
}
