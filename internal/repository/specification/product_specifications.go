package specification

import "gorm.io/gorm"

type ByProductCode struct {
	ProductCode string
}

func (s ByProductCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_code = ?", s.ProductCode)
}

// ByCategory matches the category verbatim.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}
