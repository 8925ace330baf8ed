package services

import (
	"context"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
)

// ProductReconciler turns decoded import rows into stored products. Rows are
// always inserted; two rows with the same name become two products.
type ProductReconciler struct {
	products ProductRepository
}

func NewProductReconciler(products ProductRepository) *ProductReconciler {
	return &ProductReconciler{products: products}
}

func (r *ProductReconciler) Create(ctx context.Context, row ProductRow, category *models.Category) (*models.Product, error) {
	product := NewProductFromRow(row, category, time.Now())
	if err := r.products.Insert(ctx, product); err != nil {
		return nil, storeError(err, "create product", "Product already exists")
	}
	return product, nil
}

func NewProductFromRow(row ProductRow, category *models.Category, now time.Time) *models.Product {
	specs := row.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	origin := row.Origin
	if origin == "" {
		origin = models.DefaultOrigin
	}

	return &models.Product{
		Name:             row.Name,
		Description:      row.Description,
		ShortDescription: row.ShortDescription,
		CategoryID:       category.ID,
		Category:         category.Summary(),
		Origin:           origin,
		Specifications:   specs,
		Certifications:   nonNil(row.Certifications),
		PackagingOptions: nonNil(row.PackagingOptions),
		Images:           []string{},
		PriceHistory:     []models.PriceEntry{},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
