package serverutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ar-storefront-be/internal/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Email string `json:"email" validate:"required,email"`
}

type request struct {
	Name  string `json:"name" validate:"required"`
	Inner nested `json:"inner"`
}

func TestValidationMessage(t *testing.T) {
	err := ValidateRequest(&request{Name: "x", Inner: nested{Email: "not-an-email"}})
	require.Error(t, err)
	assert.Equal(t, "inner.email is not a valid email", ValidationMessage(err))

	err = ValidateRequest(&request{Inner: nested{Email: "a@b.com"}})
	require.Error(t, err)
	assert.Equal(t, "name is required", ValidationMessage(err))
}

func newProtectedApp(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *fiber.App {
	app := fiber.New()
	app.Get("/private", JwtMiddleware(jwtService, blacklist), func(ctx *fiber.Ctx) error {
		claims, ok := ClaimsFrom(ctx)
		if !ok {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}
		return ctx.SendString(claims.UserID)
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService("secret", time.Hour)
	blacklist := auth.NewMemoryTokenBlacklist()
	app := newProtectedApp(jwtService, blacklist)

	userID := uuid.New()
	token, claims, err := jwtService.Generate(userID)
	require.NoError(t, err)

	call := func(setup func(r *http.Request)) (int, string) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		setup(req)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	code, _ := call(func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := call(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, userID.String(), body)

	code, _ = call(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) })
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") })
	assert.Equal(t, http.StatusUnauthorized, code)

	require.NoError(t, blacklist.Revoke(t.Context(), claims.ID, time.Hour))
	code, body = call(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, auth.ErrTokenBlacklisted.Error())
}

func TestResponses(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return SuccessResponse(ctx, fiber.StatusCreated, fiber.Map{"id": 1})
	})
	app.Get("/err", func(ctx *fiber.Ctx) error {
		return ErrorResponse(ctx, fiber.StatusNotFound, "Product not found")
	})
	app.Get("/text", func(ctx *fiber.Ctx) error {
		return TextResponse(ctx, fiber.StatusBadRequest, "All fields are compulsory!")
	})

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/ok", http.StatusCreated, fiber.MIMEApplicationJSON, `{"id":1}`},
		{"/err", http.StatusNotFound, fiber.MIMEApplicationJSON, `{"error":"Product not found"}`},
		{"/text", http.StatusBadRequest, fiber.MIMETextPlainCharsetUTF8, "All fields are compulsory!"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get(fiber.HeaderContentType))
			assert.Equal(t, tt.body, string(body))
		})
	}
}
