package service

import (
	"context"
	"errors"
	"strings"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/entity"
	"ar-storefront-be/internal/repository/specification"
	"ar-storefront-be/internal/repository/unitofwork"
)

var ErrProductNotFound = errors.New("product not found")

type IProductService interface {
	GetAll(ctx context.Context) ([]*dto.ProductResponse, error)
	GetByCode(ctx context.Context, productCode string) (*dto.ProductResponse, error)
	GetByCategory(ctx context.Context, category string) ([]*dto.ProductResponse, error)
}

type productService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProductService(uowFactory unitofwork.RepositoryFactory) IProductService {
	return &productService{uowFactory: uowFactory}
}

func (s *productService) GetAll(ctx context.Context) ([]*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

func (s *productService) GetByCode(ctx context.Context, productCode string) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByProductCode{ProductCode: productCode})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return toProductResponse(product), nil
}

func (s *productService) GetByCategory(ctx context.Context, category string) ([]*dto.ProductResponse, error) {
	category = strings.TrimSpace(category)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAll(ctx,
		specification.ByCategory{Category: category},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &dto.ProductResponse{
		Id:          p.Id,
		ProductCode: p.ProductCode,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Image:       p.Image,
		Images:      images,
		ModelURL:    p.ModelURL,
	}
}

func toProductResponses(products []*entity.Product) []*dto.ProductResponse {
	res := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res
}
