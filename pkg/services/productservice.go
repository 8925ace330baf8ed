package services

import (
	"context"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type productService struct {
	products   ProductRepository
	categories CategoryRepository
	resolver   *CategoryResolver
	reconciler *ProductReconciler
	uploader   Uploader
}

func NewProductService(products ProductRepository, categories CategoryRepository, uploader Uploader) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		resolver:   NewCategoryResolver(categories),
		reconciler: NewProductReconciler(products),
		uploader:   uploader,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	row := ProductRow{
		Name:             strings.TrimSpace(req.Name),
		Description:      strings.TrimSpace(req.Description),
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		Category:         strings.TrimSpace(req.Category),
		Origin:           strings.TrimSpace(req.Origin),
		Specifications:   req.Specifications,
		Certifications:   trimList(req.Certifications),
		PackagingOptions: trimList(req.PackagingOptions),
	}
	if err := validateRow(row); err != nil {
		return nil, err
	}
	if req.CurrentPrice != nil && *req.CurrentPrice < 0 {
		return nil, ValidationError("Price cannot be negative")
	}
	if row.ShortDescription == "" {
		row.ShortDescription = Truncate(row.Description, common.SHORT_DESCRIPTION_LENGTH)
	}

	category, err := s.resolveCategory(ctx, row.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := NewProductFromRow(row, category, now)
	if req.CurrentPrice != nil {
		currency := strings.ToUpper(strings.TrimSpace(req.Currency))
		if currency == "" {
			currency = models.DefaultCurrency
		}
		product.CurrentPrice = req.CurrentPrice
		product.Currency = currency
		product.PriceHistory = []models.PriceEntry{{Amount: *req.CurrentPrice, Currency: currency, Date: now}}
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, storeError(err, "create product", "Product already exists")
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id, true)
	if err != nil {
		return nil, productLookupError(err)
	}
	if err := s.populate(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProducts(ctx context.Context, filter models.ProductFilter, pagination util.PaginationArgs) ([]models.Product, int64, error) {
	products, count, err := s.products.Find(ctx, filter, pagination)
	if err != nil {
		return nil, 0, InfrastructureError(err, "list products")
	}
	if err := s.populate(ctx, toPointers(products)...); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id primitive.ObjectID, req models.ProductUpdateRequest) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id, false)
	if err != nil {
		return nil, productLookupError(err)
	}

	set := bson.M{}
	setText := func(key string, value *string, required bool) error {
		if value == nil {
			return nil
		}
		v := strings.TrimSpace(*value)
		if v == "" && required {
			return ValidationError("%s cannot be empty", key)
		}
		set[key] = v
		return nil
	}
	if err := setText("name", req.Name, true); err != nil {
		return nil, err
	}
	if err := setText("description", req.Description, true); err != nil {
		return nil, err
	}
	if err := setText("shortDescription", req.ShortDescription, false); err != nil {
		return nil, err
	}
	if err := setText("origin", req.Origin, false); err != nil {
		return nil, err
	}
	if v, ok := set["origin"]; ok && v == "" {
		set["origin"] = models.DefaultOrigin
	}

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, strings.TrimSpace(*req.Category))
		if err != nil {
			return nil, err
		}
		set["category"] = category.ID
	}
	if req.Specifications != nil {
		specs := *req.Specifications
		if specs == nil {
			specs = map[string]string{}
		}
		set["specifications"] = specs
	}
	if req.Certifications != nil {
		set["certifications"] = trimList(*req.Certifications)
	}
	if req.PackagingOptions != nil {
		set["packagingOptions"] = trimList(*req.PackagingOptions)
	}
	if req.Images != nil {
		set["images"] = nonNil(*req.Images)
	}

	var currency string
	if req.Currency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.CurrentPrice != nil && *req.CurrentPrice < 0 {
		return nil, ValidationError("Price cannot be negative")
	}
	entry := PriceChange(existing, req.CurrentPrice, currency, time.Now())
	if entry != nil {
		set["currentPrice"] = entry.Amount
		set["currency"] = entry.Currency
		util.LogInfo("product price changed",
			zap.String("productId", id.Hex()),
			zap.Float64("amount", entry.Amount),
			zap.String("currency", entry.Currency),
		)
	}

	if len(set) == 0 {
		if err := s.populate(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	updated, err := s.products.Update(ctx, id, set, entry)
	if err != nil {
		return nil, productLookupError(err)
	}
	if err := s.populate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.products.Update(ctx, id, bson.M{"isActive": false}, nil); err != nil {
		return productLookupError(err)
	}
	return nil
}

func (s *productService) AddProductImage(ctx context.Context, id primitive.ObjectID, file any) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id, false)
	if err != nil {
		return nil, productLookupError(err)
	}

	if s.uploader == nil {
		return nil, InfrastructureError(errUploadsDisabled, "upload unavailable")
	}
	url, err := s.uploader.Upload(ctx, file, "products")
	if err != nil {
		return nil, InfrastructureError(err, "upload product image")
	}

	images := append(nonNil(existing.Images), url)
	updated, err := s.products.Update(ctx, id, bson.M{"images": images}, nil)
	if err != nil {
		return nil, productLookupError(err)
	}
	if err := s.populate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// resolveCategory accepts a category id, name or slug. The category must be
// active.
func (s *productService) resolveCategory(ctx context.Context, value string) (*models.Category, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return s.resolver.ResolveForProduct(ctx, value)
	}

	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !category.IsActive) {
		return nil, ReferenceError("Category %q not found", value)
	}
	if err != nil {
		return nil, InfrastructureError(err, "look up category")
	}
	return category, nil
}

// populate fills the category summary of each product with one lookup.
func (s *productService) populate(ctx context.Context, products ...*models.Product) error {
	ids := make([]primitive.ObjectID, 0, len(products))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range products {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}

	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return InfrastructureError(err, "load product categories")
	}
	byID := make(map[primitive.ObjectID]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for _, p := range products {
		if c, ok := byID[p.CategoryID]; ok {
			p.Category = c.Summary()
		}
	}
	return nil
}

func toPointers(products []models.Product) []*models.Product {
	out := make([]*models.Product, len(products))
	for i := range products {
		out[i] = &products[i]
	}
	return out
}

func trimList(list []string) []string {
	out := []string{}
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func productLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("Product not found")
	}
	return InfrastructureError(err, "product store")
}
