package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/auth"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/middleware"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var actorID = primitive.NewObjectID()

// withSession stands in for middleware.Auth.
func withSession(c *gin.Context) {
	c.Set(middleware.SessionContextKey, auth.UserSession{UserID: actorID, Role: models.RoleAdmin})
	c.Set(middleware.SessionKeyContextKey, "session-key")
	c.Next()
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Status  int             `json:"status"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %s", w.Body.String())
	}
	return env
}

func multipartBody(t *testing.T, field, filename, body string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(body))
	w.Close()
	return &buf, w.FormDataContentType()
}

type fakeBulkService struct {
	services.BulkService
	seenPath   string
	seenData   string
	seenCtxErr error
	err        error
}

func (f *fakeBulkService) ImportCategories(ctx context.Context, upload services.Upload, actor primitive.ObjectID) (*models.BatchResult, error) {
	f.seenPath = upload.Path
	f.seenCtxErr = ctx.Err()
	data, _ := os.ReadFile(upload.Path)
	f.seenData = string(data)
	if f.err != nil {
		return nil, f.err
	}
	if actor != actorID {
		return nil, errors.New("wrong actor")
	}
	return &models.BatchResult{
		Message: "Bulk import completed",
		Summary: models.BatchSummary{Total: 2, Success: 1, Errors: 1},
		Results: []any{},
		Errors:  []models.RowError{{Line: 3, Error: "Category with this name already exists", Kind: "conflict"}},
	}, nil
}

func (f *fakeBulkService) CategoryTemplate() (*models.CSVTemplate, error) {
	return &models.CSVTemplate{Filename: "categories_template.csv", ContentType: "text/csv", Body: []byte("name\n")}, nil
}

func bulkRouter(svc services.BulkService, dir string) *gin.Engine {
	bc := InitBulkController(svc, dir, 1<<20)
	r := gin.New()
	r.POST("/bulk/categories", withSession, bc.ImportCategories())
	r.POST("/anon/categories", bc.ImportCategories())
	r.GET("/bulk/categories/template", bc.CategoryTemplate())
	return r
}

func TestBulkImportRespondsOKWithRowErrors(t *testing.T) {
	dir := t.TempDir()
	svc := &fakeBulkService{}
	r := bulkRouter(svc, dir)

	body, contentType := multipartBody(t, "file", "categories.csv", "name\nSpices\nSpices\n")
	req := httptest.NewRequest(http.MethodPost, "/bulk/categories", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result models.BatchResult
	if err := json.Unmarshal(decode(t, w).Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Summary.Errors != 1 || result.Errors[0].Line != 3 {
		t.Errorf("result = %+v", result)
	}
	if svc.seenData != "name\nSpices\nSpices\n" {
		t.Errorf("import saw %q", svc.seenData)
	}
	if _, err := os.Stat(svc.seenPath); !os.IsNotExist(err) {
		t.Error("upload was not removed after the import")
	}
}

func TestBulkImportDetachedFromRequest(t *testing.T) {
	svc := &fakeBulkService{}
	r := bulkRouter(svc, t.TempDir())

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	body, contentType := multipartBody(t, "file", "categories.csv", "name\nSpices\n")
	req := httptest.NewRequest(http.MethodPost, "/bulk/categories", body).WithContext(reqCtx)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.seenCtxErr != nil {
		t.Errorf("import context error = %v, want a live context", svc.seenCtxErr)
	}
}

func TestBulkImportFailures(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		filename string
		svcErr   error
		want     int
		wantMsg  string
	}{
		{"no session", "/anon/categories", "categories.csv", nil, http.StatusUnauthorized, ""},
		{"unsupported file", "/bulk/categories", "categories.pdf", nil, http.StatusUnprocessableEntity, "Only CSV and XLSX files are supported"},
		{"aborted batch", "/bulk/categories", "categories.csv",
			services.InfrastructureError(context.DeadlineExceeded, "insert category"),
			http.StatusInternalServerError, "insert category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			r := bulkRouter(&fakeBulkService{err: tt.svcErr}, dir)

			body, contentType := multipartBody(t, "file", tt.filename, "name\nSpices\n")
			req := httptest.NewRequest(http.MethodPost, tt.path, body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.wantMsg != "" && decode(t, w).Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", decode(t, w).Error, tt.wantMsg)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("upload dir not empty: %d entries", len(entries))
			}
		})
	}
}

func TestTemplateDownload(t *testing.T) {
	r := bulkRouter(&fakeBulkService{}, t.TempDir())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bulk/categories/template", nil))

	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("status = %d, content type = %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "categories_template.csv") {
		t.Errorf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}
}

type fakeCategoryService struct {
	services.CategoryService
	created models.CategoryRequest
	actor   primitive.ObjectID
}

func (f *fakeCategoryService) CreateCategory(ctx context.Context, actor primitive.ObjectID, req models.CategoryRequest) (*models.Category, error) {
	f.created, f.actor = req, actor
	if req.Name == "Spices" {
		return nil, services.ConflictError("Category with this name already exists")
	}
	return &models.Category{ID: primitive.NewObjectID(), Name: req.Name, IsActive: true}, nil
}

func (f *fakeCategoryService) GetCategory(ctx context.Context, idOrSlug string) (*models.Category, error) {
	if idOrSlug == "spices" {
		return &models.Category{Name: "Spices", Slug: "spices"}, nil
	}
	return nil, services.NotFoundError("Category not found")
}

func TestCategoryController(t *testing.T) {
	svc := &fakeCategoryService{}
	cc := InitCategoryController(svc)
	r := gin.New()
	r.POST("/categories", withSession, cc.CreateCategory())
	r.GET("/categories/:id", cc.GetCategory())

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/categories", `{"name":"Tea"}`, http.StatusCreated},
		{http.MethodPost, "/categories", `{"name":"Spices"}`, http.StatusConflict},
		{http.MethodPost, "/categories", `{"name":`, http.StatusBadRequest},
		{http.MethodGet, "/categories/spices", "", http.StatusOK},
		{http.MethodGet, "/categories/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s %s = %d, want %d", tt.method, tt.path, tt.body, w.Code, tt.want)
		}
	}
	if svc.actor != actorID {
		t.Error("acting user was not passed to the service")
	}
}

type fakeProductService struct {
	services.ProductService
	update models.ProductUpdateRequest
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, req models.ProductUpdateRequest) (*models.Product, error) {
	f.update = req
	if req.Category != nil {
		return nil, services.ReferenceError("Category %q not found", *req.Category)
	}
	return &models.Product{ID: id, CurrentPrice: req.CurrentPrice}, nil
}

func TestProductControllerUpdate(t *testing.T) {
	svc := &fakeProductService{}
	r := gin.New()
	r.PUT("/products/:id", InitProductController(svc, 1<<20).UpdateProduct())

	id := primitive.NewObjectID().Hex()
	tests := []struct {
		path string
		body string
		want int
	}{
		{"/products/" + id, `{"currentPrice": 12}`, http.StatusOK},
		{"/products/" + id, `{"category": "Tea"}`, http.StatusBadRequest},
		{"/products/not-an-id", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("PUT %s %s = %d, want %d", tt.path, tt.body, w.Code, tt.want)
		}
	}
	if svc.update.CurrentPrice == nil || *svc.update.CurrentPrice != 12 {
		t.Errorf("price not forwarded: %+v", svc.update)
	}
}

type fakeVendorService struct {
	services.VendorService
	verified *bool
	drafts   []any
}

func (f *fakeVendorService) VerifyVendor(ctx context.Context, id primitive.ObjectID, verified bool) (*models.Vendor, error) {
	f.verified = &verified
	return &models.Vendor{ID: id, Verified: verified}, nil
}

func (f *fakeVendorService) ReplaceDrafts(ctx context.Context, id primitive.ObjectID, drafts []any) (*models.Vendor, error) {
	f.drafts = drafts
	return &models.Vendor{ID: id, InitialProducts: services.NormalizeDrafts(drafts)}, nil
}

func TestVendorController(t *testing.T) {
	svc := &fakeVendorService{}
	vc := InitVendorController(svc, 1<<20)
	r := gin.New()
	r.PATCH("/vendors/:id/verify", vc.VerifyVendor())
	r.PUT("/vendors/:id/products", vc.ReplaceDrafts())
	id := primitive.NewObjectID().Hex()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/vendors/"+id+"/verify", nil))
	if w.Code != http.StatusOK || svc.verified == nil || !*svc.verified {
		t.Errorf("verify without body = %d, verified = %v", w.Code, svc.verified)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/vendors/"+id+"/verify", strings.NewReader(`{"verified":false}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || *svc.verified {
		t.Errorf("unverify = %d, verified = %v", w.Code, *svc.verified)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/vendors/"+id+"/products", strings.NewReader(`{"initialProducts":[{"name":"A"},{"name":"B"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(svc.drafts) != 2 {
		t.Errorf("replace drafts = %d, drafts = %v", w.Code, svc.drafts)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/vendors/"+id+"/products", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("replace drafts without list = %d, want 422", w.Code)
	}
}

type fakeUserService struct {
	services.UserService
	user *models.User
}

func (f *fakeUserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Password == "deactivated" {
		return nil, services.ErrAccountDisabled
	}
	if req.Password != "secret" {
		return nil, services.ErrInvalidCredentials
	}
	return f.user, nil
}

type fakeSessions struct {
	deleted string
}

func (f *fakeSessions) Create(ctx context.Context, user *models.User) (string, auth.UserSession, error) {
	return "token-123", auth.UserSession{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeSessions) Delete(ctx context.Context, key string) error {
	f.deleted = key
	return nil
}

func TestAuthController(t *testing.T) {
	sessions := &fakeSessions{}
	ac := InitAuthController(&fakeUserService{user: &models.User{ID: actorID, Role: models.RoleAdmin}}, sessions)
	r := gin.New()
	r.POST("/auth/login", ac.Login())
	r.DELETE("/auth/logout", withSession, ac.Logout())

	login := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := login(`{"email":"admin@example.com","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(decode(t, w).Data, &resp); err != nil || resp.Token != "token-123" {
		t.Errorf("login response = %+v, %v", resp, err)
	}

	if w := login(`{"email":"admin@example.com","password":"nope"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", w.Code)
	}
	if w := login(`{"email":"admin@example.com","password":"deactivated"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("deactivated login = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/auth/logout", nil))
	if w.Code != http.StatusOK || sessions.deleted != "session-key" {
		t.Errorf("logout = %d, deleted %q", w.Code, sessions.deleted)
	}
}

type fakeInquiryService struct {
	services.InquiryService
	filter models.InquiryFilter
	update models.InquiryUpdateRequest
}

func (f *fakeInquiryService) CreateInquiry(ctx context.Context, req models.InquiryRequest) (*models.Inquiry, error) {
	if req.Product == "retired" {
		return nil, services.NotFoundError("Product not found or is not active")
	}
	return &models.Inquiry{ID: primitive.NewObjectID(), Name: req.Name, Status: models.InquiryPending}, nil
}

func (f *fakeInquiryService) GetInquiries(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error) {
	f.filter = filter
	return []models.Inquiry{{ID: primitive.NewObjectID()}}, 1, nil
}

func (f *fakeInquiryService) UpdateInquiry(ctx context.Context, id primitive.ObjectID, req models.InquiryUpdateRequest) (*models.Inquiry, error) {
	f.update = req
	if req.Status == nil && req.Notes == nil {
		return nil, services.ValidationError("No update data provided (status or notes)")
	}
	return &models.Inquiry{ID: id, Status: *req.Status}, nil
}

func TestInquiryController(t *testing.T) {
	svc := &fakeInquiryService{}
	ic := InitInquiryController(svc)
	r := gin.New()
	r.POST("/inquiries", ic.CreateInquiry())
	r.GET("/inquiries", ic.GetInquiries())
	r.PATCH("/inquiries/:id", ic.UpdateInquiry())

	productID := primitive.NewObjectID().Hex()
	id := primitive.NewObjectID().Hex()
	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/inquiries", `{"product":"` + productID + `","name":"Mira","email":"m@b.co","message":"hi"}`, http.StatusCreated},
		{http.MethodPost, "/inquiries", `{"product":"retired","name":"Mira","email":"m@b.co","message":"hi"}`, http.StatusNotFound},
		{http.MethodPost, "/inquiries", `{"product":`, http.StatusBadRequest},
		{http.MethodGet, "/inquiries?status=Pending&productId=" + productID, "", http.StatusOK},
		{http.MethodGet, "/inquiries?productId=saffron", "", http.StatusUnprocessableEntity},
		{http.MethodPatch, "/inquiries/" + id, `{"status":"Resolved"}`, http.StatusOK},
		{http.MethodPatch, "/inquiries/" + id, `{}`, http.StatusUnprocessableEntity},
		{http.MethodPatch, "/inquiries/not-an-id", `{"status":"Resolved"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s %s = %d, want %d", tt.method, tt.path, tt.body, w.Code, tt.want)
		}
	}
	if svc.filter.Status != models.InquiryPending || svc.filter.ProductID == nil || svc.filter.ProductID.Hex() != productID {
		t.Errorf("filter = %+v", svc.filter)
	}
}

type fakeAdminService struct {
	services.AdminService
	superAdmin primitive.ObjectID
	reset      string
}

func (f *fakeAdminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalProducts: 3, RecentProducts: []models.Product{}}, nil
}

func (f *fakeAdminService) CreateUser(ctx context.Context, req models.AdminUserRequest) (*models.User, error) {
	if req.Email == "taken@example.com" {
		return nil, services.ConflictError("User with this email already exists")
	}
	return &models.User{ID: primitive.NewObjectID(), Email: req.Email, Password: "hash", Role: req.Role, IsActive: true}, nil
}

func (f *fakeAdminService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if id == f.superAdmin {
		return services.ForbiddenError("Cannot delete a super admin")
	}
	return nil
}

func (f *fakeAdminService) ResetPassword(ctx context.Context, id primitive.ObjectID, req models.PasswordResetRequest) error {
	f.reset = req.Password
	return nil
}

func TestAdminController(t *testing.T) {
	svc := &fakeAdminService{superAdmin: primitive.NewObjectID()}
	ac := InitAdminController(svc)
	r := gin.New()
	r.GET("/admin/dashboard/stats", ac.GetDashboardStats())
	r.POST("/admin/users", ac.CreateUser())
	r.DELETE("/admin/users/:id", ac.DeleteUser())
	r.POST("/admin/users/:id/reset-password", ac.ResetPassword())

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/admin/dashboard/stats", "")
	var stats models.DashboardStats
	if w.Code != http.StatusOK || json.Unmarshal(decode(t, w).Data, &stats) != nil || stats.TotalProducts != 3 {
		t.Errorf("stats = %d %s", w.Code, w.Body.String())
	}

	w = do(http.MethodPost, "/admin/users", `{"name":"Ed","email":"ed@example.com","password":"long-enough","role":"content_editor"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user = %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hash") {
		t.Error("password hash leaked in response")
	}
	if w := do(http.MethodPost, "/admin/users", `{"name":"Ed","email":"taken@example.com","password":"long-enough","role":"admin"}`); w.Code != http.StatusConflict {
		t.Errorf("create taken user = %d, want 409", w.Code)
	}

	if w := do(http.MethodDelete, "/admin/users/"+svc.superAdmin.Hex(), ""); w.Code != http.StatusForbidden {
		t.Errorf("delete super admin = %d, want 403", w.Code)
	}
	if w := do(http.MethodDelete, "/admin/users/"+primitive.NewObjectID().Hex(), ""); w.Code != http.StatusOK {
		t.Errorf("delete user = %d, want 200", w.Code)
	}

	w = do(http.MethodPost, "/admin/users/"+primitive.NewObjectID().Hex()+"/reset-password", `{"password":"second-pass"}`)
	if w.Code != http.StatusOK || svc.reset != "second-pass" {
		t.Errorf("reset password = %d, reset %q", w.Code, svc.reset)
	}
}
