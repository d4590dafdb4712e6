package mockapi

import (
	"github.com/shopspring/decimal"

	"storefront/pkg/shop"
)

// DefaultProducts is the catalog served when none is configured.
func DefaultProducts() []shop.Product {
	return []shop.Product{
		{
			ID:          "p-croissant",
			Title:       "Butter croissant",
			Category:    "pastry",
			ImageURL:    "https://images.example.com/croissant.jpg",
			Content:     "Laminated dough, cultured butter",
			Description: "Baked every morning",
			Unit:        "piece",
			Price:       decimal.NewFromInt(80),
			OriginPrice: decimal.NewFromInt(100),
			IsEnabled:   1,
		},
		{
			ID:          "p-baguette",
			Title:       "Baguette",
			Category:    "bread",
			ImageURL:    "https://images.example.com/baguette.jpg",
			Content:     "Flour, water, salt, yeast",
			Description: "Crisp crust, open crumb",
			Unit:        "loaf",
			Price:       decimal.NewFromInt(60),
			OriginPrice: decimal.NewFromInt(75),
			IsEnabled:   1,
		},
		{
			ID:          "p-tart",
			Title:       "Lemon tart",
			Category:    "dessert",
			ImageURL:    "https://images.example.com/tart.jpg",
			Content:     "Shortcrust, lemon curd",
			Description: "Sharp and sweet",
			Unit:        "slice",
			Price:       decimal.NewFromInt(120),
			OriginPrice: decimal.NewFromInt(150),
			IsEnabled:   1,
		},
	}
}
