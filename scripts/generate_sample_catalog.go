package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type sampleProduct struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
}

// generateSampleCatalog writes data/catalog/products.jsonl.gz, the default
// SEED_FILES entry.
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []sampleProduct{
		{Name: "Classic White Tee", Price: 19.99, Image: "/images/white-tee.jpg", Description: "Soft cotton crew neck."},
		{Name: "Denim Jacket", Price: 79.5, Image: "/images/denim-jacket.jpg", Description: "Stonewashed, relaxed fit."},
		{Name: "Canvas Sneakers", Price: 54, Image: "/images/sneakers.jpg", Description: "Everyday low-tops."},
		{Name: "Leather Belt", Price: 29.95, Image: "/images/belt.jpg", Description: "Full-grain leather, brass buckle."},
		{Name: "Wool Beanie", Price: 15, Image: "/images/beanie.jpg", Description: "Merino blend."},
		{Name: "Ceramic Mug", Price: 12.5, Image: "/images/mug.jpg", Description: "Holds 350 ml."},
		{Name: "Linen Tote Bag", Price: 24, Image: "/images/tote.jpg", Description: "Natural linen with inner pocket."},
		{Name: "Aviator Sunglasses", Price: 89, Image: "/images/aviators.jpg", Description: "Polarised lenses."},
	}

	filePath := filepath.Join(dataDir, "products.jsonl.gz")
	if err := createCatalogFile(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func createCatalogFile(filePath string, products []sampleProduct) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, product := range products {
		product.Active = true
		if err := encoder.Encode(product); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	return nil
}
