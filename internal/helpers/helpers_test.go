package helpers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartContext(t *testing.T, filename, contentType, body string) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(body))
	w.Close()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

func TestSaveImportUpload(t *testing.T) {
	dir := t.TempDir()
	c := multipartContext(t, "categories.csv", "text/csv", "name\nSpices\n")

	upload, cleanup, err := SaveImportUpload(c, dir, 1<<20)
	if err != nil {
		t.Fatalf("SaveImportUpload() error = %v", err)
	}
	if upload.Filename != "categories.csv" || upload.MimeType != "text/csv" {
		t.Errorf("upload = %+v", upload)
	}
	data, err := os.ReadFile(upload.Path)
	if err != nil || string(data) != "name\nSpices\n" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	cleanup()
	if _, err := os.Stat(upload.Path); !os.IsNotExist(err) {
		t.Error("cleanup left the temp file behind")
	}
}

func TestSaveImportUploadRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		maxSize  int64
	}{
		{"image", "photo.png", "image/png", 1 << 20},
		{"too large", "big.csv", "text/csv", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := multipartContext(t, tt.filename, tt.mimeType, "name\nSpices\n")
			_, cleanup, err := SaveImportUpload(c, t.TempDir(), tt.maxSize)
			defer cleanup()
			if !services.IsKind(err, services.KindValidation) {
				t.Errorf("error = %v, want validation", err)
			}
		})
	}
}

func TestGetPaginationArgs(t *testing.T) {
	tests := []struct {
		query     string
		wantLimit int
		wantSkip  int
	}{
		{"", 10, 0},
		{"?limit=20&skip=5", 20, 5},
		{"?limit=500", 100, 0},
		{"?page=3&limit=10", 10, 20},
		{"?limit=-1&skip=-4", 10, 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		got := GetPaginationArgs(c)
		if got.Limit != tt.wantLimit || got.Skip != tt.wantSkip {
			t.Errorf("GetPaginationArgs(%q) = %+v", tt.query, got)
		}
	}
}
