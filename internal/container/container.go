package container

import (
	"github.com/aparajitverma/TheExportExpress-sub003/internal/auth"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/cache"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/controllers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServiceContainer struct {
	Config   *util.Config
	Redis    *redis.Client
	Sessions *auth.SessionStore
	Tree     *cache.TreeCache

	CategoryService services.CategoryService
	ProductService  services.ProductService
	VendorService   services.VendorService
	BulkService     services.BulkService
	UserService     services.UserService
	InquiryService  services.InquiryService
	AdminService    services.AdminService

	AuthController     *controllers.AuthController
	CategoryController *controllers.CategoryController
	ProductController  *controllers.ProductController
	VendorController   *controllers.VendorController
	BulkController     *controllers.BulkController
	InquiryController  *controllers.InquiryController
	AdminController    *controllers.AdminController
}

func NewServiceContainer(cfg *util.Config, db *mongo.Database, rdb *redis.Client, uploader services.Uploader) *ServiceContainer {
	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	vendors := store.NewVendorStore(db)
	users := store.NewUserStore(db)
	inquiries := store.NewInquiryStore(db)

	publisher := cache.NewPublisher(rdb, common.CATEGORY_EVENTS_CHANNEL, uuid.NewString())
	tree := cache.NewTreeCache(rdb, publisher, common.CATEGORY_TREE_CACHE_KEY, common.CATEGORY_TREE_CACHE_TTL)
	sessions := auth.NewSessionStore(rdb, cfg.SessionTTL)

	categoryService := services.NewCategoryService(categories, tree)
	productService := services.NewProductService(products, categories, uploader)
	vendorService := services.NewVendorService(vendors, uploader)
	bulkService := services.NewBulkService(categories, products, tree)
	userService := services.NewUserService(users)
	inquiryService := services.NewInquiryService(inquiries, products)
	adminService := services.NewAdminService(users, products, vendors, inquiries)

	return &ServiceContainer{
		Config:   cfg,
		Redis:    rdb,
		Sessions: sessions,
		Tree:     tree,

		CategoryService: categoryService,
		ProductService:  productService,
		VendorService:   vendorService,
		BulkService:     bulkService,
		UserService:     userService,
		InquiryService:  inquiryService,
		AdminService:    adminService,

		AuthController:     controllers.InitAuthController(userService, sessions),
		CategoryController: controllers.InitCategoryController(categoryService),
		ProductController:  controllers.InitProductController(productService, cfg.MaxUploadSize),
		VendorController:   controllers.InitVendorController(vendorService, cfg.MaxUploadSize),
		BulkController:     controllers.InitBulkController(bulkService, cfg.UploadDir, cfg.MaxUploadSize),
		InquiryController:  controllers.InitInquiryController(inquiryService),
		AdminController:    controllers.InitAdminController(adminService),
	}
}
