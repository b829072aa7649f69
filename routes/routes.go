package routes

import (
	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, env *handlers.Env) {
	secret := []byte(env.Cfg.JWT.Secret)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", env.Register)
		public.POST("/auth/login", env.Login)

		// Catalog browsing (approved/active merchants only)
		public.GET("/merchants", env.ListMerchants)
		public.GET("/merchants/:id", env.GetMerchant)
		public.GET("/merchants/:id/products", env.ListProducts)

		public.GET("/state-machine", env.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(secret))
	{
		auth.GET("/profile", env.GetProfile)

		// Orders: every role goes through the same scoped endpoints
		auth.GET("/orders", env.ListOrders)
		auth.GET("/orders/:id", env.GetOrder)
		auth.PUT("/orders/:id/status", env.UpdateOrderStatus)

		// Notifications: always self-scoped
		auth.GET("/notifications", env.ListNotifications)
		auth.GET("/notifications/unread-count", env.UnreadCount)
		auth.PUT("/notifications/read-all", env.MarkAllRead)
		auth.DELETE("/notifications", env.ClearAllNotifications)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", env.CreateOrder)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/api/vendor")
	vendor.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleVendor))
	{
		vendor.POST("/merchants", env.CreateMerchant)
		vendor.GET("/merchants", env.GetMyMerchants)
		vendor.PUT("/merchants/:id", env.UpdateMerchant)

		vendor.POST("/categories", env.CreateCategory)
		vendor.POST("/products", env.CreateProduct)
		vendor.PUT("/products/:id", env.UpdateProduct)
		vendor.DELETE("/products/:id", env.DeleteProduct)
	}

	// ── Courier assignment (vendor or admin) ───────────────────────
	assign := r.Group("/api")
	assign.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleVendor, models.RoleAdmin))
	{
		assign.PUT("/orders/:id/courier", env.AssignCourier)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", env.AdminListUsers)
		admin.GET("/merchants", env.AdminListMerchants)
		admin.PUT("/merchants/:id/approve", env.AdminApproveMerchant)
	}
}
