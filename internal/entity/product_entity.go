package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	Id          uuid.UUID
	ProductCode string
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	Image       string
	Images      []string
	// ModelURL references the externally authored 3D asset shown in AR.
	ModelURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
