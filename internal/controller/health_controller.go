package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db         *gorm.DB
	arSessions func() int
	startedAt  time.Time
}

func NewHealthController(db *gorm.DB, arSessions func() int) IHealthController {
	return &healthController{
		db:         db,
		arSessions: arSessions,
		startedAt:  time.Now(),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK

	database := "ok"
	if err := c.pingDB(ctx.UserContext()); err != nil {
		database = err.Error()
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return ctx.Status(code).JSON(fiber.Map{
		"status":             status,
		"database":           database,
		"active_ar_sessions": c.arSessions(),
		"uptime_seconds":     int64(time.Since(c.startedAt).Seconds()),
	})
}

func (c *healthController) pingDB(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
