package helpers

import (
	"strconv"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetPaginationArgs extracts pagination parameters from HTTP request. A page
// parameter takes precedence over skip.
func GetPaginationArgs(c *gin.Context) util.PaginationArgs {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = common.DEFAULT_PAGE_LIMIT
	}
	if limit > common.MAX_PAGE_LIMIT {
		limit = common.MAX_PAGE_LIMIT
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		skip = (page - 1) * limit
	}
	if skip < 0 {
		skip = 0
	}

	return util.PaginationArgs{
		Limit: limit,
		Skip:  skip,
		Sort:  c.DefaultQuery("sort", "createdAt_desc"),
	}
}

// ObjectIDParam reads a hex ObjectID path parameter.
func ObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, services.ValidationError("Invalid %s", name)
	}
	return id, nil
}

// BoolQuery returns nil when the parameter is absent or not a boolean.
func BoolQuery(c *gin.Context, name string) *bool {
	b, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return nil
	}
	return &b
}
