package services

import (
	"context"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgCategoryExists = "Category with this name already exists"
	msgEmptySlug      = "Name must contain at least one letter or digit"

	// maxCategoryDepth bounds the ancestor walk when the stored graph is
	// already corrupt.
	maxCategoryDepth = 64
)

// CategoryResolver maps category names and slugs onto stored categories.
type CategoryResolver struct {
	categories CategoryRepository
}

func NewCategoryResolver(categories CategoryRepository) *CategoryResolver {
	return &CategoryResolver{categories: categories}
}

// ResolveForImport creates the category described by row. Import never
// updates: an existing slug is a conflict.
func (r *CategoryResolver) ResolveForImport(ctx context.Context, row CategoryRow, actor primitive.ObjectID) (*models.Category, error) {
	slug := util.Slugify(row.Name)
	if slug == "" {
		return nil, ValidationError(msgEmptySlug)
	}

	if err := r.ensureSlugFree(ctx, slug, primitive.NilObjectID); err != nil {
		return nil, err
	}

	var parentID *primitive.ObjectID
	if row.ParentCategory != "" {
		parent, err := r.lookupActive(ctx, row.ParentCategory)
		if IsKind(err, KindNotFound) {
			return nil, ReferenceError("Parent category %q not found", row.ParentCategory)
		}
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	now := time.Now()
	category := &models.Category{
		Name:           row.Name,
		Slug:           slug,
		Description:    row.Description,
		ParentCategory: parentID,
		IsActive:       true,
		CreatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.categories.Insert(ctx, category); err != nil {
		return nil, storeError(err, "create category", msgCategoryExists)
	}
	return category, nil
}

// ResolveForProduct finds the active category a product row names. It never
// creates anything.
func (r *CategoryResolver) ResolveForProduct(ctx context.Context, value string) (*models.Category, error) {
	category, err := r.lookupActive(ctx, value)
	if IsKind(err, KindNotFound) {
		return nil, ReferenceError("Category %q not found", value)
	}
	return category, err
}

// ValidateParent checks that parentID may become the parent of id. The parent
// must be active and must not have id among its ancestors. Pass a zero id for
// a category that does not exist yet.
func (r *CategoryResolver) ValidateParent(ctx context.Context, id, parentID primitive.ObjectID) (*models.Category, error) {
	if !id.IsZero() && id == parentID {
		return nil, ValidationError("Category cannot be its own parent")
	}

	parent, err := r.categories.FindByID(ctx, parentID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !parent.IsActive) {
		return nil, ReferenceError("Parent category not found or is inactive")
	}
	if err != nil {
		return nil, InfrastructureError(err, "look up parent category")
	}
	if id.IsZero() {
		return parent, nil
	}

	seen := map[primitive.ObjectID]bool{parent.ID: true}
	current := parent
	for depth := 0; current.ParentCategory != nil && depth < maxCategoryDepth; depth++ {
		next := *current.ParentCategory
		if next == id {
			return nil, ValidationError("Category cannot be moved under its own descendant")
		}
		if seen[next] {
			break
		}
		seen[next] = true

		current, err = r.categories.FindByID(ctx, next)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, InfrastructureError(err, "walk category ancestors")
		}
	}
	return parent, nil
}

func (r *CategoryResolver) lookupActive(ctx context.Context, value string) (*models.Category, error) {
	category, err := r.categories.FindActiveByNameOrSlug(ctx, value, util.Slugify(value))
	if err != nil {
		return nil, storeError(err, "look up category", msgCategoryExists)
	}
	return category, nil
}

func (r *CategoryResolver) ensureSlugFree(ctx context.Context, slug string, self primitive.ObjectID) error {
	existing, err := r.categories.FindBySlug(ctx, slug)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return InfrastructureError(err, "look up category slug")
	case existing.ID == self:
		return nil
	default:
		return ConflictError(msgCategoryExists)
	}
}
