package dto

import (
	"github.com/google/uuid"
)

type ProductResponse struct {
	Id          uuid.UUID `json:"id"`
	ProductCode string    `json:"productCode"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Images      []string  `json:"images"`
	ModelURL    string    `json:"modelUrl,omitempty"`
}
