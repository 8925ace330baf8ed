package services

import (
	"context"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type categoryService struct {
	categories CategoryRepository
	resolver   *CategoryResolver
	cache      CategoryTreeCache
}

func NewCategoryService(categories CategoryRepository, cache CategoryTreeCache) CategoryService {
	return &categoryService{
		categories: categories,
		resolver:   NewCategoryResolver(categories),
		cache:      cache,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, actor primitive.ObjectID, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError("Category name is required")
	}
	slug := util.Slugify(name)
	if slug == "" {
		return nil, ValidationError(msgEmptySlug)
	}
	if err := s.resolver.ensureSlugFree(ctx, slug, primitive.NilObjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if parentRef := strings.TrimSpace(req.ParentCategory); parentRef != "" {
		parentID, err := primitive.ObjectIDFromHex(parentRef)
		if err != nil {
			return nil, ValidationError("Invalid parent category id")
		}
		parent, err := s.resolver.ValidateParent(ctx, primitive.NilObjectID, parentID)
		if err != nil {
			return nil, err
		}
		category.ParentCategory = &parent.ID
	}

	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, storeError(err, "create category", msgCategoryExists)
	}

	s.cache.Invalidate(ctx)
	return category, nil
}

// GetCategory accepts either a hex object id or a slug.
func (s *categoryService) GetCategory(ctx context.Context, idOrSlug string) (*models.Category, error) {
	var (
		category *models.Category
		err      error
	)
	if id, hexErr := primitive.ObjectIDFromHex(idOrSlug); hexErr == nil {
		category, err = s.categories.FindByID(ctx, id)
	} else {
		category, err = s.categories.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, categoryLookupError(err)
	}
	return category, nil
}

func (s *categoryService) GetCategories(ctx context.Context, filter models.CategoryFilter, pagination util.PaginationArgs) ([]models.Category, int64, error) {
	categories, count, err := s.categories.Find(ctx, filter, pagination)
	if err != nil {
		return nil, 0, InfrastructureError(err, "list categories")
	}
	return categories, count, nil
}

func (s *categoryService) SearchCategories(ctx context.Context, term string) ([]models.Category, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Category{}, nil
	}
	categories, err := s.categories.Search(ctx, term, 20)
	if err != nil {
		return nil, InfrastructureError(err, "search categories")
	}
	return categories, nil
}

func (s *categoryService) GetCategoryTree(ctx context.Context) ([]*models.Category, error) {
	if tree, ok := s.cache.Get(ctx); ok {
		return tree, nil
	}

	categories, err := s.categories.FindAll(ctx, false)
	if err != nil {
		return nil, InfrastructureError(err, "load categories")
	}

	tree := BuildCategoryTree(categories)
	s.cache.Set(ctx, tree)
	return tree, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, req models.CategoryUpdateRequest) (*models.Category, error) {
	current, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(err)
	}

	set := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ValidationError("Category name is required")
		}
		if name != current.Name {
			slug := util.Slugify(name)
			if slug == "" {
				return nil, ValidationError(msgEmptySlug)
			}
			if err := s.resolver.ensureSlugFree(ctx, slug, id); err != nil {
				return nil, err
			}
			set["name"] = name
			set["slug"] = slug
		}
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.ParentCategory != nil {
		parentRef := strings.TrimSpace(*req.ParentCategory)
		if parentRef == "" {
			set["parentCategory"] = nil
		} else {
			parentID, err := primitive.ObjectIDFromHex(parentRef)
			if err != nil {
				return nil, ValidationError("Invalid parent category id")
			}
			parent, err := s.resolver.ValidateParent(ctx, id, parentID)
			if err != nil {
				return nil, err
			}
			set["parentCategory"] = parent.ID
		}
	}

	if len(set) == 0 {
		return current, nil
	}

	updated, err := s.categories.Update(ctx, id, set)
	if err != nil {
		return nil, storeError(err, "update category", msgCategoryExists)
	}

	s.cache.Invalidate(ctx)
	return updated, nil
}

// DeleteCategory deactivates the category. Products keep their reference.
func (s *categoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.categories.Update(ctx, id, bson.M{"isActive": false})
	if err != nil {
		return categoryLookupError(err)
	}

	util.LogInfo("category deactivated", zap.String("categoryId", id.Hex()))
	s.cache.Invalidate(ctx)
	return nil
}

// BuildCategoryTree links categories to their parents. Categories whose parent
// is not in the list become roots.
func BuildCategoryTree(categories []*models.Category) []*models.Category {
	byID := make(map[primitive.ObjectID]*models.Category, len(categories))
	for _, category := range categories {
		category.Children = []*models.Category{}
		byID[category.ID] = category
	}

	roots := []*models.Category{}
	for _, category := range categories {
		if category.ParentCategory != nil {
			if parent, ok := byID[*category.ParentCategory]; ok && parent != category {
				parent.Children = append(parent.Children, category)
				continue
			}
		}
		roots = append(roots, category)
	}

	// Categories on a parent cycle are unreachable from any root. Detach each
	// one from its parent so the tree stays finite.
	reached := make(map[primitive.ObjectID]bool, len(categories))
	var mark func(*models.Category)
	mark = func(c *models.Category) {
		if reached[c.ID] {
			return
		}
		reached[c.ID] = true
		for _, child := range c.Children {
			mark(child)
		}
	}
	for _, root := range roots {
		mark(root)
	}
	for _, category := range categories {
		if reached[category.ID] {
			continue
		}
		parent := byID[*category.ParentCategory]
		kept := parent.Children[:0]
		for _, child := range parent.Children {
			if child != category {
				kept = append(kept, child)
			}
		}
		parent.Children = kept
		roots = append(roots, category)
		mark(category)
	}
	return roots
}

func categoryLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("Category not found")
	}
	return InfrastructureError(err, "look up category")
}
