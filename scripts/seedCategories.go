package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	"learnhub/utils"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type categoryFile struct {
	Categories []models.Category `yaml:"categories"`
}

func main() {
	path := flag.String("file", "scripts/categories.yaml", "category seed file")
	flag.Parse()

	cfg := config.LoadConfig()
	db, err := database.ConnectDb(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open seed file: %v", err)
	}
	defer file.Close()

	categories, err := parseCategories(file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	log.Printf("Total categories to seed: %d", len(categories))

	inserted, updated, err := seedCategories(db, categories)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeding finished: %d inserted, %d updated", inserted, updated)
}

// parseCategories decodes the seed file, deriving missing slugs from names
// and dropping duplicates by slug.
func parseCategories(r io.Reader) ([]models.Category, error) {
	var doc categoryFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seen := make(map[string]bool)
	out := make([]models.Category, 0, len(doc.Categories))
	for i, c := range doc.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("category %d: name is required", i+1)
		}
		c.Slug = utils.Slugify(c.Slug)
		if c.Slug == "" {
			c.Slug = utils.Slugify(c.Name)
		}
		if seen[c.Slug] {
			continue
		}
		seen[c.Slug] = true
		out = append(out, models.Category{Name: c.Name, Slug: c.Slug})
	}
	return out, nil
}

// seedCategories inserts new categories and renames existing ones matched by slug.
func seedCategories(db *gorm.DB, categories []models.Category) (inserted, updated int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, c := range categories {
			var existing models.Category
			res := tx.Where(&models.Category{Slug: c.Slug}).Limit(1).Find(&existing)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				category := c
				if err := tx.Create(&category).Error; err != nil {
					return fmt.Errorf("create %s: %w", c.Slug, err)
				}
				inserted++
				continue
			}
			if existing.Name == c.Name {
				continue
			}
			if err := tx.Model(&existing).Update("name", c.Name).Error; err != nil {
				return fmt.Errorf("update %s: %w", c.Slug, err)
			}
			updated++
		}
		return nil
	})
	return inserted, updated, err
}
