package controllers

import (
	"net/http"
	"strings"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryController struct {
	categoryService services.CategoryService
}

func InitCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CreateCategory handles POST /v1/categories
func (cc *CategoryController) CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		session, err := helpers.CurrentSession(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		var req models.CategoryRequest
		if !BindJSON(c, &req) {
			return
		}

		category, err := cc.categoryService.CreateCategory(ctx, session.UserID, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Category created successfully", category)
	}
}

// GetCategories handles GET /v1/categories
func (cc *CategoryController) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		filter := models.CategoryFilter{IncludeInactive: c.Query("includeInactive") == "true"}
		if parent := c.Query("parentId"); parent != "" {
			id, err := primitive.ObjectIDFromHex(parent)
			if err != nil {
				HandleServiceError(c, services.ValidationError("Invalid parentId"))
				return
			}
			filter.ParentID = &id
		}

		pagination := helpers.GetPaginationArgs(c)
		categories, count, err := cc.categoryService.GetCategories(ctx, filter, pagination)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, categories, count, pagination, "success")
	}
}

// SearchCategories handles GET /v1/categories/search?q=
func (cc *CategoryController) SearchCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		categories, err := cc.categoryService.SearchCategories(ctx, strings.TrimSpace(c.Query("q")))
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", categories)
	}
}

// GetCategoryTree handles GET /v1/categories/tree
func (cc *CategoryController) GetCategoryTree() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		tree, err := cc.categoryService.GetCategoryTree(ctx)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", tree)
	}
}

// GetCategory handles GET /v1/categories/:id where id is an ObjectID or a slug.
func (cc *CategoryController) GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		category, err := cc.categoryService.GetCategory(ctx, c.Param("id"))
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", category)
	}
}

// UpdateCategory handles PUT /v1/categories/:id
func (cc *CategoryController) UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.CategoryUpdateRequest
		if !BindJSON(c, &req) {
			return
		}

		category, err := cc.categoryService.UpdateCategory(ctx, id, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Category updated successfully", category)
	}
}

// DeleteCategory handles DELETE /v1/categories/:id
func (cc *CategoryController) DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := cc.categoryService.DeleteCategory(ctx, id); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Category deleted successfully", nil)
	}
}
