package controllers

import (
	"context"
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BulkController struct {
	bulkService   services.BulkService
	uploadDir     string
	maxUploadSize int64
}

func InitBulkController(bulkService services.BulkService, uploadDir string, maxUploadSize int64) *BulkController {
	return &BulkController{
		bulkService:   bulkService,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

// ImportCategories handles POST /v1/bulk/categories
func (bc *BulkController) ImportCategories() gin.HandlerFunc {
	return bc.handleImport(bc.bulkService.ImportCategories)
}

// ImportProducts handles POST /v1/bulk/products
func (bc *BulkController) ImportProducts() gin.HandlerFunc {
	return bc.handleImport(bc.bulkService.ImportProducts)
}

type importFunc func(ctx context.Context, upload services.Upload, actor primitive.ObjectID) (*models.BatchResult, error)

// handleImport saves the upload, runs the import and always removes the file.
// Row failures are part of a 200 response; only aborted batches fail. The
// batch is not tied to the request: a client that disconnects mid-batch does
// not stop it.
func (bc *BulkController) handleImport(run importFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := helpers.CurrentSession(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		upload, cleanup, err := helpers.SaveImportUpload(c, bc.uploadDir, bc.maxUploadSize)
		defer cleanup()
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		result, err := run(context.WithoutCancel(c.Request.Context()), upload, session.UserID)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, result.Message, result)
	}
}

// CategoryTemplate handles GET /v1/bulk/categories/template
func (bc *BulkController) CategoryTemplate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sendTemplate(c, bc.bulkService.CategoryTemplate)
	}
}

// ProductTemplate handles GET /v1/bulk/products/template
func (bc *BulkController) ProductTemplate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sendTemplate(c, bc.bulkService.ProductTemplate)
	}
}

func sendTemplate(c *gin.Context, build func() (*models.CSVTemplate, error)) {
	tpl, err := build()
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+tpl.Filename+`"`)
	c.Data(http.StatusOK, tpl.ContentType, tpl.Body)
}
