package main

import (
	"givento/internal/models"

	"github.com/shopspring/decimal"
)

var sampleCatalogue = []models.ProductInput{
	{
		Name:          "Premium Cotton T-Shirt",
		Description:   "High-quality cotton t-shirt perfect for everyday wear. Soft, comfortable, and durable.",
		OriginalPrice: decimal.NewFromInt(299),
		SalePrice:     decimal.NewFromInt(199),
		Category:      "t-shirt",
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Colors:        []string{"White", "Black", "Gray", "Navy Blue"},
		Images:        []string{"/hero.webp"},
	},
	{
		Name:          "Classic Denim Jeans",
		Description:   "Comfortable denim jeans with a classic fit. Perfect for casual and semi-formal occasions.",
		OriginalPrice: decimal.NewFromInt(599),
		SalePrice:     decimal.NewFromInt(449),
		Category:      "pants",
		Sizes:         []string{"28", "30", "32", "34", "36", "38"},
		Colors:        []string{"Blue", "Black", "Dark Blue"},
		Images:        []string{"/hero.webp"},
	},
	{
		Name:          "Baseball Cap",
		Description:   "Stylish baseball cap with adjustable strap. Perfect for outdoor activities and casual wear.",
		OriginalPrice: decimal.NewFromInt(149),
		SalePrice:     decimal.NewFromInt(99),
		Category:      "cap",
		Sizes:         []string{"One Size"},
		Colors:        []string{"Black", "White", "Red", "Blue"},
		Images:        []string{"/hero.webp"},
	},
	{
		Name:          "Zip-up Hoodie",
		Description:   "Warm and comfortable zip-up hoodie. Perfect for cool weather and layering.",
		OriginalPrice: decimal.NewFromInt(799),
		SalePrice:     decimal.NewFromInt(599),
		Category:      "zip-up",
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Colors:        []string{"Gray", "Black", "Navy", "Maroon"},
		Images:        []string{"/hero.webp"},
	},
	{
		Name:          "Cozy Pullover Hoodie",
		Description:   "Super soft pullover hoodie with kangaroo pocket. Perfect for lounging and casual outings.",
		OriginalPrice: decimal.NewFromInt(699),
		SalePrice:     decimal.NewFromInt(499),
		Category:      "hoodies",
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Colors:        []string{"Gray", "Black", "White", "Green"},
		Images:        []string{"/hero.webp"},
	},
	{
		Name:          "Classic Polo Shirt",
		Description:   "Elegant polo shirt perfect for business casual and smart casual occasions.",
		OriginalPrice: decimal.NewFromInt(399),
		SalePrice:     decimal.NewFromInt(299),
		Category:      "polo shirts",
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Colors:        []string{"White", "Navy", "Black", "Light Blue"},
		Images:        []string{"/hero.webp"},
	},
}
