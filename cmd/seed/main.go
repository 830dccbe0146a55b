package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"ar-storefront-be/internal/config"
	"ar-storefront-be/internal/entity"
	"ar-storefront-be/internal/repository/implementation"
	"ar-storefront-be/pkg/database"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// seedProduct is the catalogue file format, the same shape the API returns.
type seedProduct struct {
	ProductCode string          `json:"productCode"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	ModelURL    string          `json:"modelUrl"`
}

var defaultCatalogue = []seedProduct{
	{
		ProductCode: "CAR-001",
		Name:        "Mercedes-Benz Scale Model",
		Category:    "cars",
		Price:       decimal.RequireFromString("4999.00"),
		Description: "Detailed scale model, preview it on your desk in AR.",
		Image:       "/images/mercedes.jpg",
		Images:      []string{"/images/mercedes.jpg", "/images/mercedes-side.jpg"},
		ModelURL:    "/3DModels/mercedes.glb",
	},
	{
		ProductCode: "FUR-001",
		Name:        "Lounge Chair",
		Category:    "furniture",
		Price:       decimal.RequireFromString("14999.99"),
		Description: "Walnut lounge chair with leather cushions.",
		Image:       "/images/lounge-chair.jpg",
		Images:      []string{"/images/lounge-chair.jpg"},
		ModelURL:    "/3DModels/lounge-chair.glb",
	},
	{
		ProductCode: "FUR-002",
		Name:        "Oak Coffee Table",
		Category:    "furniture",
		Price:       decimal.RequireFromString("8500.00"),
		Description: "Solid oak, 120 x 60 cm.",
		Image:       "/images/coffee-table.jpg",
		Images:      []string{"/images/coffee-table.jpg"},
		ModelURL:    "/3DModels/coffee-table.glb",
	},
	{
		ProductCode: "DEC-001",
		Name:        "Ceramic Vase",
		Category:    "decor",
		Price:       decimal.RequireFromString("1200.50"),
		Description: "Hand-glazed ceramic vase.",
		Image:       "/images/vase.jpg",
		Images:      []string{"/images/vase.jpg"},
	},
}

func loadCatalogue(path string) ([]seedProduct, error) {
	if path == "" {
		return defaultCatalogue, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []seedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func main() {
	file := flag.String("file", "", "JSON catalogue to seed instead of the built-in one")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	products, err := loadCatalogue(*file)
	if err != nil {
		log.Fatalf("Error: Failed to read catalogue: %v", err)
	}

	color.Cyan("Seeding %d products...\n", len(products))

	repo := implementation.NewProductRepository(db)
	ctx := context.Background()
	failed := 0
	for _, p := range products {
		err := repo.Upsert(ctx, &entity.Product{
			ProductCode: p.ProductCode,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
			Images:      p.Images,
			ModelURL:    p.ModelURL,
		})
		if err != nil {
			failed++
			color.Red("  %s: %v", p.ProductCode, err)
			continue
		}
		color.Green("  %s  %s", p.ProductCode, p.Name)
	}

	if failed > 0 {
		color.Yellow("Seeding finished with %d failures", failed)
		os.Exit(1)
	}
	color.Cyan("Product seeding completed!")
}
