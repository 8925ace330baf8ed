package helpers

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UploadField = "file"

var importExtensions = map[string]bool{".csv": true, ".xlsx": true}

// SaveImportUpload copies the multipart "file" field to a uniquely named file
// in dir. The returned cleanup removes it and must be called once the import
// is done, whatever its outcome.
func SaveImportUpload(c *gin.Context, dir string, maxSize int64) (services.Upload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(UploadField)
	if err != nil {
		return services.Upload{}, noop, services.ValidationError("No file uploaded")
	}
	if maxSize > 0 && header.Size > maxSize {
		return services.Upload{}, noop, services.ValidationError("File exceeds the %d byte limit", maxSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType := contentType(header)
	if !importExtensions[ext] && !allowedImportType(mimeType) {
		return services.Upload{}, noop, services.ValidationError("Only CSV and XLSX files are supported")
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := copyToFile(header, path); err != nil {
		os.Remove(path)
		return services.Upload{}, noop, services.InfrastructureError(err, "store upload")
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			util.LogWarning("failed to remove upload", zap.String("path", path), zap.Error(err))
		}
	}
	return services.Upload{Path: path, Filename: header.Filename, MimeType: mimeType}, cleanup, nil
}

// OpenFormFile opens a single multipart file for media uploads. The caller
// closes it.
func OpenFormFile(c *gin.Context, field string, maxSize int64) (multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, services.ValidationError("No file uploaded")
	}
	if maxSize > 0 && header.Size > maxSize {
		return nil, services.ValidationError("File exceeds the %d byte limit", maxSize)
	}
	file, err := header.Open()
	if err != nil {
		return nil, services.InfrastructureError(err, "open upload")
	}
	return file, nil
}

func contentType(header *multipart.FileHeader) string {
	value := header.Header.Get("Content-Type")
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return value
	}
	return mediaType
}

func allowedImportType(mimeType string) bool {
	for _, t := range common.IMPORT_MIME_TYPES {
		if t == mimeType {
			return true
		}
	}
	return false
}

func copyToFile(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
