package controller

import (
	"errors"

	"ar-storefront-be/internal/pkg/serverutils"
	"ar-storefront-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	GetProducts(ctx *fiber.Ctx) error
	GetProduct(ctx *fiber.Ctx) error
	GetProductsByCategory(ctx *fiber.Ctx) error
}

type productController struct {
	service service.IProductService
}

func NewProductController(service service.IProductService) IProductController {
	return &productController{service: service}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	r.Get("/getProducts", c.GetProducts)
	r.Get("/getProduct/:productCode", c.GetProduct)
	r.Get("/getProductsByCategory/:category", c.GetProductsByCategory)
}

func (c *productController) GetProducts(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

func (c *productController) GetProduct(ctx *fiber.Ctx) error {
	res, err := c.service.GetByCode(ctx.UserContext(), ctx.Params("productCode"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "Product not found")
		}
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

func (c *productController) GetProductsByCategory(ctx *fiber.Ctx) error {
	// an unknown category is an empty list, not a 404
	res, err := c.service.GetByCategory(ctx.UserContext(), ctx.Params("category"))
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}
