package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pestguard/handlers"
	"pestguard/middleware"
	"pestguard/models"
)

// HandlerBundle groups every handler the router needs.
type HandlerBundle struct {
	Auth          *handlers.AuthHandler
	Booking       *handlers.BookingHandler
	Technician    *handlers.TechnicianHandler
	Admin         *handlers.AdminHandler
	Store         *handlers.StoreHandler
	Payment       *handlers.PaymentHandler
	Notifications *handlers.NotificationHandler
}

// Register wires every route group onto the router.
func Register(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	registerHealthRoute(r)
	registerAuthRoutes(r, hb)
	registerUserRoutes(r, hb)
	registerTechnicianRoutes(r, hb)
	registerAdminRoutes(r, hb)
	registerPaymentRoutes(r, hb)
	registerNotificationRoutes(r, hb)
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm PestGuard"})
	})
}

func registerAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}

func registerUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/user")
	{
		// Catalog browsing is open.
		api.GET("/services", hb.Booking.ListServices)
		api.GET("/services/:id", hb.Booking.GetService)
		api.GET("/store", hb.Store.ListProducts)
		api.GET("/store/:id", hb.Store.GetProduct)

		protected := api.Group("")
		protected.Use(middleware.RequireRole(models.RoleUser, models.RoleAdmin))
		protected.POST("/bookings", hb.Booking.Create)
		protected.GET("/bookings", hb.Booking.ListMine)
		protected.GET("/bookings/:id", hb.Booking.Get)
		protected.DELETE("/bookings/:id", hb.Booking.Cancel)

		protected.GET("/cart", hb.Store.ListCart)
		protected.POST("/cart", hb.Store.AddToCart)
		protected.PUT("/cart/:id", hb.Store.UpdateCartItem)
		protected.DELETE("/cart/:id", hb.Store.RemoveCartItem)
		protected.POST("/cart/checkout", hb.Store.Checkout)
		protected.GET("/orders", hb.Store.ListOrders)
	}
}

func registerTechnicianRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/technician")
	api.Use(middleware.RequireRole(models.RoleTechnician))
	{
		api.GET("/dashboard", hb.Technician.Dashboard)
		api.GET("/services", hb.Technician.ListAssigned)
		api.GET("/services/:id", hb.Technician.GetAssigned)
		api.POST("/services/:id/otp", hb.Technician.RequestCompletion)
		api.POST("/services/:id/verify", hb.Technician.VerifyCompletion)

		api.GET("/leaves", hb.Technician.ListLeaves)
		api.POST("/leaves", hb.Technician.SubmitLeave)
		api.DELETE("/leaves/:id", hb.Technician.CancelLeave)
	}
}

func registerAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	api.Use(middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/users", hb.Admin.ListUsers)
		api.GET("/users/:id", hb.Admin.GetUser)
		api.PUT("/users/:id", hb.Admin.UpdateUser)
		api.DELETE("/users/:id", hb.Admin.DeleteUser)

		api.GET("/technicians", hb.Admin.ListTechnicians)
		api.GET("/technicians/:id", hb.Admin.GetTechnician)
		api.POST("/technicians", hb.Admin.CreateTechnician)
		api.PUT("/technicians/:id", hb.Admin.UpdateTechnician)
		api.DELETE("/technicians/:id", hb.Admin.DeleteTechnician)

		api.POST("/services", hb.Admin.CreateService)
		api.PUT("/services/:id", hb.Admin.UpdateService)
		api.DELETE("/services/:id", hb.Admin.DeleteService)

		api.POST("/store", hb.Admin.CreateProduct)
		api.PUT("/store/:id", hb.Admin.UpdateProduct)
		api.DELETE("/store/:id", hb.Admin.DeleteProduct)

		api.GET("/leaves", hb.Admin.PendingLeaves)
		api.PATCH("/leaves/:id", hb.Admin.DecideLeave)

		api.GET("/bookings", hb.Admin.ListBookings)
	}
}

func registerPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	api.Use(middleware.RequireRole(models.RoleUser, models.RoleAdmin))
	{
		api.POST("/intent", hb.Payment.CreateIntent)
		api.POST("/verify", hb.Payment.Verify)
	}
}

func registerNotificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.RequireRole())
	{
		api.GET("", hb.Notifications.ListUnseen)
		api.PATCH("/:id/seen", hb.Notifications.MarkSeen)
	}
}
