package serverutils

import (
	"errors"
	"reflect"
	"strings"

	"ar-storefront-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse writes the storefront's error shape, {"error": message}.
func ErrorResponse(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{"error": message})
}

// TextResponse writes a plain-text body, used by the auth routes.
func TextResponse(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).SendString(message)
}

// SuccessResponse writes data as JSON with the given status.
func SuccessResponse(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(data)
}

// ValidateRequest runs the struct's validate tags.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// ValidationMessage renders the first failed field, e.g. "product.price is required".
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fieldPath(fe.Namespace()) + " is " + ruleText(fe.Tag(), fe.Param())
	}
	return err.Error()
}

func fieldPath(ns string) string {
	// drop the root struct name
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleText(tag, param string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "not a valid email"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	}
	return "invalid (" + tag + ")"
}

// ErrorHandler is the fiber error handler for errors handlers did not map.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ErrorResponse(ctx, code, err.Error())
	}
}
