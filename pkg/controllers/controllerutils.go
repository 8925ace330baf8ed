package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithTimeout derives the standard request timeout from the request context.
func WithTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return WithTimeoutOf(c, common.REQUEST_TIMEOUT_SECS)
}

func WithTimeoutOf(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// HandleServiceError responds with the status matching the error's kind.
// Infrastructure causes are not shown to the caller.
func HandleServiceError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		util.LogError("request failed", err, util.RequestFields(c)...)
		var ce *services.CatalogError
		if errors.As(err, &ce) {
			err = errors.New(ce.Message)
		} else {
			err = errors.New("internal server error")
		}
	}
	util.HandleError(c, status, err)
}

// ParseObjectIDParam parses an ObjectID from URL parameter and handles errors
func ParseObjectIDParam(c *gin.Context, paramName string) (primitive.ObjectID, bool) {
	objectID, err := primitive.ObjectIDFromHex(c.Param(paramName))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.Errorf("invalid %s", paramName))
		return primitive.NilObjectID, false
	}
	return objectID, true
}

// BindJSON binds the request body and reports malformed JSON as 400.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return false
	}
	return true
}

// HandlePaginationAndResponse is a utility for common pagination responses
func HandlePaginationAndResponse(c *gin.Context, data any, count int64, paginationArgs util.PaginationArgs, message string) {
	util.HandleSuccessMeta(c, http.StatusOK, message, data, gin.H{
		"pagination": util.Pagination{
			Limit: paginationArgs.Limit,
			Skip:  paginationArgs.Skip,
			Count: count,
		},
	})
}
