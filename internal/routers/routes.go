package routers

import (
	"github.com/aparajitverma/TheExportExpress-sub003/internal/container"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/middleware"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/controllers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"

	"github.com/gin-gonic/gin"
)

// InitRoute builds the gin engine with every /v1 route group.
func InitRoute(sc *container.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(sc.Config.CORSOrigins))
	router.MaxMultipartMemory = sc.Config.MaxUploadSize

	api := router.Group("/v1", middleware.RateLimiter(sc.Redis, sc.Config.RateLimitPerSecond))
	{
		api.GET("/ping", controllers.Ping)

		authRoutes(api, sc)
		categoryRoutes(api, sc)
		productRoutes(api, sc)
		vendorRoutes(api, sc)
		bulkRoutes(api, sc)
		inquiryRoutes(api, sc)
		adminRoutes(api, sc)
	}

	return router
}

func withRoles(sc *container.ServiceContainer, roles ...models.UserRole) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.Auth(sc.Sessions),
		middleware.RequireRoles(roles...),
	}
}

func adminOnly(sc *container.ServiceContainer) []gin.HandlerFunc {
	return withRoles(sc, models.RoleSuperAdmin, models.RoleAdmin)
}

func authRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	ac := sc.AuthController

	api.POST("/auth/login", ac.Login())
	{
		secured := api.Group("/auth", middleware.Auth(sc.Sessions))
		secured.GET("/me", ac.Me())
		secured.DELETE("/logout", ac.Logout())
	}
}

func categoryRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	cc := sc.CategoryController

	categories := api.Group("/categories")
	categories.GET("", cc.GetCategories())
	categories.GET("/tree", cc.GetCategoryTree())
	categories.GET("/search", cc.SearchCategories())
	categories.GET("/:id", cc.GetCategory())
	{
		secured := categories.Group("", adminOnly(sc)...)
		secured.POST("", cc.CreateCategory())
		secured.PUT("/:id", cc.UpdateCategory())
		secured.DELETE("/:id", cc.DeleteCategory())
	}
}

func productRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	pc := sc.ProductController

	products := api.Group("/products")
	products.GET("", pc.GetProducts())
	products.GET("/:id", pc.GetProduct())
	{
		secured := products.Group("", adminOnly(sc)...)
		secured.POST("", pc.CreateProduct())
		secured.PUT("/:id", pc.UpdateProduct())
		secured.DELETE("/:id", pc.DeleteProduct())
		secured.POST("/:id/images", pc.AddProductImage())
	}
}

func vendorRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	vc := sc.VendorController

	vendors := api.Group("/vendors", adminOnly(sc)...)
	vendors.GET("", vc.GetVendors())
	vendors.GET("/stats", vc.GetVendorStats())
	vendors.GET("/:id", vc.GetVendor())
	vendors.POST("", vc.CreateVendor())
	vendors.PUT("/:id", vc.UpdateVendor())
	vendors.PUT("/:id/products", vc.ReplaceDrafts())
	vendors.POST("/:id/products/:index/certifications", vc.AddCertificationFile())
	vendors.PATCH("/:id/status", vc.UpdateVendorStatus())
	vendors.PATCH("/:id/verify", vc.VerifyVendor())
	vendors.DELETE("/:id", vc.DeleteVendor())
}

func bulkRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	bc := sc.BulkController

	bulk := api.Group("/bulk", adminOnly(sc)...)
	bulk.POST("/categories", bc.ImportCategories())
	bulk.POST("/products", bc.ImportProducts())
	bulk.GET("/categories/template", bc.CategoryTemplate())
	bulk.GET("/products/template", bc.ProductTemplate())
}

func inquiryRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	ic := sc.InquiryController

	api.POST("/inquiries", ic.CreateInquiry())
	{
		staff := api.Group("/inquiries", withRoles(sc, models.StaffRoles...)...)
		staff.GET("", ic.GetInquiries())
		staff.GET("/:id", ic.GetInquiry())
		staff.PATCH("/:id", ic.UpdateInquiry())
		staff.DELETE("/:id", ic.DeleteInquiry())
	}
}

func adminRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	ac := sc.AdminController

	api.GET("/admin/dashboard/stats", append(adminOnly(sc), ac.GetDashboardStats())...)

	users := api.Group("/admin/users", withRoles(sc, models.RoleSuperAdmin)...)
	users.GET("", ac.GetUsers())
	users.POST("", ac.CreateUser())
	users.PUT("/:id", ac.UpdateUser())
	users.DELETE("/:id", ac.DeleteUser())
	users.POST("/:id/reset-password", ac.ResetPassword())
}
