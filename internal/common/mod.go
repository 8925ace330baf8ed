package common

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

const (
	REQUEST_TIMEOUT_SECS     = 30 * time.Second
	MONGO_DUPLICATE_KEY_CODE = 11000

	DEFAULT_PAGE_LIMIT = 10
	MAX_PAGE_LIMIT     = 100

	SHORT_DESCRIPTION_LENGTH = 100

	CATEGORY_TREE_CACHE_KEY = "catalog:category-tree"
	CATEGORY_TREE_CACHE_TTL = 10 * time.Minute
	CATEGORY_EVENTS_CHANNEL = "catalog:category-events"
)

// Accepted upload MIME types for batch imports.
var IMPORT_MIME_TYPES = []string{
	"text/csv",
	"application/csv",
	"application/vnd.ms-excel",
	"text/plain",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
