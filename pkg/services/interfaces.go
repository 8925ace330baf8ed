package services

import (
	"context"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repositories. pkg/store provides the Mongo implementations.

type CategoryRepository interface {
	Insert(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindActiveByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	Find(ctx context.Context, filter models.CategoryFilter, pagination util.PaginationArgs) ([]models.Category, int64, error)
	FindAll(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	Search(ctx context.Context, term string, limit int) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Find(ctx context.Context, filter models.ProductFilter, pagination util.PaginationArgs) ([]models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M, entry *models.PriceEntry) (*models.Product, error)
}

type VendorRepository interface {
	Insert(ctx context.Context, vendor *models.Vendor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	FindByField(ctx context.Context, field, value string, exclude primitive.ObjectID) (*models.Vendor, error)
	Count(ctx context.Context) (int64, error)
	Find(ctx context.Context, filter models.VendorFilter, pagination util.PaginationArgs) ([]models.Vendor, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Vendor, error)
	AppendCertificationFile(ctx context.Context, id primitive.ObjectID, index int, url string) (*models.Vendor, error)
	Stats(ctx context.Context) (*models.VendorStats, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	FindByRoles(ctx context.Context, roles []models.UserRole, pagination util.PaginationArgs) ([]models.User, int64, error)
	CountByRoles(ctx context.Context, roles []models.UserRole) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type InquiryRepository interface {
	Insert(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	Find(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error)
	Count(ctx context.Context, filter models.InquiryFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Inquiry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryTreeCache stores the assembled category tree. Implementations are
// best effort and never fail the caller.
type CategoryTreeCache interface {
	Get(ctx context.Context) ([]*models.Category, bool)
	Set(ctx context.Context, tree []*models.Category)
	Invalidate(ctx context.Context)
}

// Uploader stores a file with the media provider and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file any, subfolder string) (string, error)
}

// Services

type CategoryService interface {
	CreateCategory(ctx context.Context, actor primitive.ObjectID, req models.CategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, idOrSlug string) (*models.Category, error)
	GetCategories(ctx context.Context, filter models.CategoryFilter, pagination util.PaginationArgs) ([]models.Category, int64, error)
	SearchCategories(ctx context.Context, term string) ([]models.Category, error)
	GetCategoryTree(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, req models.CategoryUpdateRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type ProductService interface {
	CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProducts(ctx context.Context, filter models.ProductFilter, pagination util.PaginationArgs) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, req models.ProductUpdateRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	AddProductImage(ctx context.Context, id primitive.ObjectID, file any) (*models.Product, error)
}

type VendorService interface {
	CreateVendor(ctx context.Context, req models.VendorRequest) (*models.Vendor, error)
	GetVendor(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	GetVendors(ctx context.Context, filter models.VendorFilter, pagination util.PaginationArgs) ([]models.Vendor, int64, error)
	GetVendorStats(ctx context.Context) (*models.VendorStats, error)
	UpdateVendor(ctx context.Context, id primitive.ObjectID, req models.VendorRequest) (*models.Vendor, error)
	ReplaceDrafts(ctx context.Context, id primitive.ObjectID, drafts []any) (*models.Vendor, error)
	UpdateVendorStatus(ctx context.Context, id primitive.ObjectID, status models.VendorStatus) (*models.Vendor, error)
	VerifyVendor(ctx context.Context, id primitive.ObjectID, verified bool) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, id primitive.ObjectID) error
	AddCertificationFile(ctx context.Context, id primitive.ObjectID, draftIndex int, file any) (*models.Vendor, error)
}

// BulkService runs batch imports over a file already saved to local disk.
type BulkService interface {
	ImportCategories(ctx context.Context, upload Upload, actor primitive.ObjectID) (*models.BatchResult, error)
	ImportProducts(ctx context.Context, upload Upload, actor primitive.ObjectID) (*models.BatchResult, error)
	CategoryTemplate() (*models.CSVTemplate, error)
	ProductTemplate() (*models.CSVTemplate, error)
}

type UserService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error)
}

// AdminService manages staff accounts. Super admin accounts cannot be changed
// through it.
type AdminService interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	GetUsers(ctx context.Context, pagination util.PaginationArgs) ([]models.User, int64, error)
	CreateUser(ctx context.Context, req models.AdminUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, req models.AdminUserUpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, req models.PasswordResetRequest) error
}

type InquiryService interface {
	CreateInquiry(ctx context.Context, req models.InquiryRequest) (*models.Inquiry, error)
	GetInquiries(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error)
	GetInquiry(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, id primitive.ObjectID, req models.InquiryUpdateRequest) (*models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id primitive.ObjectID) error
}

// Upload is a validated local file handed over by the upload boundary.
type Upload struct {
	Path     string
	Filename string
	MimeType string
}
