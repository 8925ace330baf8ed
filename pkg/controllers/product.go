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

type ProductController struct {
	productService services.ProductService
	maxUploadSize  int64
}

func InitProductController(productService services.ProductService, maxUploadSize int64) *ProductController {
	return &ProductController{productService: productService, maxUploadSize: maxUploadSize}
}

// CreateProduct handles POST /v1/products
func (pc *ProductController) CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.ProductRequest
		if !BindJSON(c, &req) {
			return
		}

		product, err := pc.productService.CreateProduct(ctx, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Product created successfully", product)
	}
}

// GetProducts handles GET /v1/products
func (pc *ProductController) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		filter := models.ProductFilter{
			Search:   strings.TrimSpace(c.Query("search")),
			IsActive: helpers.BoolQuery(c, "isActive"),
		}
		if category := c.Query("category"); category != "" {
			id, err := primitive.ObjectIDFromHex(category)
			if err != nil {
				HandleServiceError(c, services.ValidationError("Invalid category"))
				return
			}
			filter.CategoryID = &id
		}

		pagination := helpers.GetPaginationArgs(c)
		products, count, err := pc.productService.GetProducts(ctx, filter, pagination)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, products, count, pagination, "success")
	}
}

// GetProduct handles GET /v1/products/:id
func (pc *ProductController) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		product, err := pc.productService.GetProduct(ctx, id)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", product)
	}
}

// UpdateProduct handles PUT /v1/products/:id
func (pc *ProductController) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.ProductUpdateRequest
		if !BindJSON(c, &req) {
			return
		}

		product, err := pc.productService.UpdateProduct(ctx, id, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Product updated successfully", product)
	}
}

// DeleteProduct handles DELETE /v1/products/:id
func (pc *ProductController) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := pc.productService.DeleteProduct(ctx, id); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Product deleted successfully", nil)
	}
}

// AddProductImage handles POST /v1/products/:id/images with a multipart "image".
func (pc *ProductController) AddProductImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		file, err := helpers.OpenFormFile(c, "image", pc.maxUploadSize)
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		defer file.Close()

		product, err := pc.productService.AddProductImage(ctx, id, file)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Image uploaded successfully", product)
	}
}
