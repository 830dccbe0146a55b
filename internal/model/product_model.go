package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	ProductCode string                      `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name        string                      `gorm:"type:varchar(255);not null"`
	Category    string                      `gorm:"type:varchar(100);index;not null"`
	Price       decimal.Decimal             `gorm:"type:decimal(12,2);not null"`
	Description string                      `gorm:"type:text"`
	Image       string                      `gorm:"type:text"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ModelURL    string                      `gorm:"column:model_url;type:text"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}
