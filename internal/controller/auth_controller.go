package controller

import (
	"errors"
	"time"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/pkg/serverutils"
	"ar-storefront-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	msgMissingFields      = "All fields are compulsory!"
	msgUserExists         = "User already exists with this Email!"
	msgInvalidCredentials = "Invalid credentials!"
	msgInternalError      = "Internal Server Error"
	msgPasswordTooLong    = "Password is too long!"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service    service.IAuthService
	cookieTTL  time.Duration
	secure     bool
	middleware fiber.Handler
}

// NewAuthController takes the JWT middleware guarding /logout and /me.
func NewAuthController(service service.IAuthService, cookieTTL time.Duration, secureCookie bool, jwtMiddleware fiber.Handler) IAuthController {
	return &authController{
		service:    service,
		cookieTTL:  cookieTTL,
		secure:     secureCookie,
		middleware: jwtMiddleware,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Post("/register", c.Register)
	r.Post("/login", c.Login)
	r.Post("/logout", c.middleware, c.Logout)
	r.Get("/me", c.middleware, c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgMissingFields)
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgMissingFields)
		case errors.Is(err, service.ErrUserExists):
			return serverutils.TextResponse(ctx, fiber.StatusUnauthorized, msgUserExists)
		case errors.Is(err, service.ErrPasswordTooLong):
			return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgPasswordTooLong)
		}
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusCreated, dto.RegisterResponse{
		User:  res.User,
		Token: res.Token,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgMissingFields)
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgMissingFields)
		case errors.Is(err, service.ErrInvalidCredentials):
			return serverutils.TextResponse(ctx, fiber.StatusBadRequest, msgInvalidCredentials)
		}
		return serverutils.TextResponse(ctx, fiber.StatusInternalServerError, msgInternalError)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.TokenCookie,
		Value:    res.Token,
		Expires:  time.Now().Add(c.cookieTTL),
		HTTPOnly: true,
		Secure:   c.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, dto.LoginResponse{
		Success: true,
		Token:   res.Token,
		User:    res.User,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	claims, _ := serverutils.ClaimsFrom(ctx)
	if err := c.service.Logout(ctx.UserContext(), claims); err != nil {
		return err
	}

	ctx.ClearCookie(serverutils.TokenCookie)
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	claims, ok := serverutils.ClaimsFrom(ctx)
	if !ok {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	res, err := c.service.Me(ctx.UserContext(), claims)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}
