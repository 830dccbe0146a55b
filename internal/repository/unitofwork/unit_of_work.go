package unitofwork

import (
	"context"

	"ar-storefront-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProductRepository() contract.ProductRepository
}
