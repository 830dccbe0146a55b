package controller

import (
	"errors"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/pkg/payment"
	"ar-storefront-be/internal/pkg/serverutils"
	"ar-storefront-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Charge(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	r.Post("/payment", c.Charge)
}

func (c *paymentController) Charge(ctx *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "invalid payment request: "+err.Error())
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, serverutils.ValidationMessage(err))
	}

	res, err := c.service.Charge(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
		}
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) {
			return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, gwErr.Message)
		}
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}

	// the gateway's own response, verbatim
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Status(fiber.StatusOK).Send(res.Raw)
}
