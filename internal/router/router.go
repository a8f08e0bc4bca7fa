package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/config"
	"github.com/shop-ex/shopex-backend/internal/app/controller"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/guard"
	"github.com/shop-ex/shopex-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	catalogController    *controller.CatalogController
	moderationController *controller.ModerationController
	onboardingController *controller.OnboardingController
	uploadController     *controller.UploadController
	authMiddleware       *middleware.AuthMiddleware
	users                guard.Directory
	products             guard.ProductDirectory
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	moderationController *controller.ModerationController,
	onboardingController *controller.OnboardingController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	users guard.Directory,
	products guard.ProductDirectory,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		catalogController:    catalogController,
		moderationController: moderationController,
		onboardingController: onboardingController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		users:                users,
		products:             products,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SHOP-EX API is running",
		})
	})

	// Guard chains. Cheap identity checks run before store-backed role and
	// ownership lookups; ordering is a cost choice only, every chain
	// denies the same requests in any order.
	selfOnly := guard.Chain{guard.SelfMatch()}
	sellerCreate := guard.Chain{guard.SelfMatch(), guard.SellerEligible(r.users)}
	staffReview := guard.Chain{guard.ValidIdentifier(), guard.RoleMatch(r.users, model.RoleStaff)}
	adminReview := guard.Chain{guard.ValidIdentifier(), guard.RoleMatch(r.users, model.RoleAdmin)}
	adminOnly := guard.Chain{guard.RoleMatch(r.users, model.RoleAdmin)}
	ownerAction := guard.Chain{guard.ValidIdentifier(), guard.OwnsProduct(r.products)}

	authenticate := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/store-user", r.authController.StoreUser)
			auth.GET("/jwt", r.authController.IssueToken)
		}

		users := v1.Group("/users")
		users.Use(authenticate, middleware.Require(selfOnly))
		{
			users.GET("/role", r.authController.GetRole)
			users.PUT("/profile", r.authController.UpdateProfile)
			users.DELETE("/account", r.authController.DeleteAccount)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.catalogController.ListApproved)
			products.GET("/sample", r.catalogController.Sample)
			products.GET("/facets", r.catalogController.Facets)
			products.GET("/:id", r.catalogController.GetProduct)

			products.POST("",
				authenticate,
				middleware.Require(sellerCreate),
				r.moderationController.CreateListing,
			)
			products.POST("/:id/comments",
				authenticate,
				r.catalogController.AddComment,
			)
			products.PUT("/:id/resubmit",
				authenticate,
				middleware.Require(ownerAction),
				r.moderationController.Resubmit,
			)
			products.DELETE("/:id",
				authenticate,
				middleware.Require(ownerAction),
				r.moderationController.DeleteListing,
			)
		}

		seller := v1.Group("/seller")
		seller.Use(authenticate)
		{
			seller.POST("/request", middleware.Require(selfOnly), r.onboardingController.ApplySeller)
			seller.GET("/products", middleware.Require(selfOnly), r.catalogController.SellerListings)
		}

		staff := v1.Group("/staff")
		staff.Use(authenticate)
		{
			staff.GET("/products",
				middleware.Require(guard.Chain{guard.RoleMatch(r.users, model.RoleStaff)}),
				r.catalogController.StaffQueue,
			)
			staff.PUT("/products/:id/check", middleware.Require(staffReview), r.moderationController.StaffApprove)
			staff.PUT("/products/:id/reject", middleware.Require(staffReview), r.moderationController.StaffReject)
		}

		admin := v1.Group("/admin")
		admin.Use(authenticate)
		{
			admin.GET("/products", middleware.Require(adminOnly), r.catalogController.AdminQueue)
			admin.PUT("/products/:id/approve", middleware.Require(adminReview), r.moderationController.AdminApprove)
			admin.PUT("/products/:id/reject", middleware.Require(adminReview), r.moderationController.AdminReject)
			admin.PUT("/sellers/:email/approve", middleware.Require(adminOnly), r.onboardingController.ApproveSeller)
			admin.PUT("/sellers/:email/deny", middleware.Require(adminOnly), r.onboardingController.DenySeller)
			admin.PUT("/staff/:email", middleware.Require(adminOnly), r.onboardingController.MakeStaff)
			admin.PUT("/roles/:email", middleware.Require(adminOnly), r.onboardingController.AssignRole)
		}

		upload := v1.Group("/upload")
		upload.Use(authenticate)
		{
			upload.POST("/presigned-url", r.uploadController.PresignUpload)
		}
	}

	return router
}
