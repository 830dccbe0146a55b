package controller

import (
	"errors"

	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/serverutils"
	"ar-storefront-be/internal/service"
	internalWS "ar-storefront-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IARController interface {
	RegisterRoutes(r fiber.Router)
	ServeSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
}

type arController struct {
	service service.IARService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewARController(service service.IARService, hub *internalWS.Hub, log logger.ILogger) IARController {
	return &arController{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (c *arController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ar")
	// before /sessions/:id so a product coded "sessions" still connects
	h.Get("/:productCode/ws", c.ServeSession)
	h.Get("/sessions/:id", c.GetSession)
}

// ServeSession upgrades to a websocket carrying one AR preview of the product.
func (c *arController) ServeSession(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	sess, err := c.service.Open(ctx.UserContext(), ctx.Params("productCode"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(c.hub, conn, sess.ID, sess, c.logger)
	})(ctx)
}

func (c *arController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrARSessionMissing) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "AR session not found")
		}
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}
