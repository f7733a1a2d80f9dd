package routes

import (
	"pawcare-backend/config"
	"pawcare-backend/controllers"
	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every controller the router mounts.
type Handlers struct {
	Auth      *controllers.AuthController
	Slots     *controllers.SlotController
	Catalog   *controllers.CatalogController
	Bookings  *controllers.BookingController
	Payments  *controllers.PaymentController
	Addresses *controllers.AddressController
	Pets      *controllers.PetController
	Profile   *controllers.ProfileController
	Groomers  *controllers.GroomerController
	Dashboard *controllers.DashboardController
	Health    gin.HandlerFunc
}

func SetupRouter(cfg config.Config, h Handlers, versions utils.TokenVersionSource) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/healthz", h.Health)

	authn := utils.AuthMiddleware(cfg.JWTSecret, versions)
	admin := utils.RequireRole(models.RoleAdmin)
	customer := utils.RequireRole(models.RoleCustomer)
	groomer := utils.RequireRole(models.RoleGroomer)

	auth := r.Group("/auth")
	{
		auth.POST("/send_email_otp", h.Auth.SendEmailOtp)
		auth.POST("/verify_email_otp", h.Auth.VerifyEmailOtp)
		auth.POST("/send_sms_otp", h.Auth.SendSmsOtp)
		auth.POST("/verify_sms_otp", h.Auth.VerifySmsOtp)
		auth.POST("/login_admin", h.Auth.LoginAdmin)
		auth.POST("/logout", authn, h.Auth.Logout)
	}

	slots := r.Group("/slots")
	{
		slots.GET("/list", h.Slots.List)
		slots.GET("/get_slots_with_booking_status", h.Slots.WithBookingStatus)
		slots.POST("/create", authn, admin, h.Slots.Create)
	}

	catalog := r.Group("/catalog")
	{
		catalog.GET("/categories", h.Catalog.Categories)
		catalog.GET("/services", h.Catalog.Services)
		catalog.POST("/categories", authn, admin, h.Catalog.CreateCategory)
		catalog.POST("/services", authn, admin, h.Catalog.CreateService)
	}

	bookings := r.Group("/bookings", authn)
	{
		bookings.POST("/new", customer, h.Bookings.Create)
		bookings.PUT("/update/:id", customer, h.Bookings.Update)
		bookings.GET("/list", h.Bookings.List)
		bookings.GET("/:id", h.Bookings.Get)
		bookings.DELETE("/delete/:id", customer, h.Bookings.Delete)
		bookings.POST("/assign_groomer/:id", admin, h.Bookings.AssignGroomer)
		bookings.POST("/start/:id", groomer, h.Bookings.Start)
		bookings.POST("/complete/:id", groomer, h.Bookings.Complete)

		bookings.POST("/:id/payments", utils.RequireRole(models.RoleAdmin, models.RoleCustomer), h.Payments.Add)
		bookings.GET("/:id/payments", h.Payments.List)
	}

	addresses := r.Group("/addresses", authn, customer)
	{
		addresses.GET("", h.Addresses.List)
		addresses.POST("", h.Addresses.Create)
		addresses.PUT("/:id", h.Addresses.Update)
		addresses.DELETE("/:id", h.Addresses.Delete)
	}

	pets := r.Group("/pets", authn, customer)
	{
		pets.GET("", h.Pets.List)
		pets.POST("", h.Pets.Create)
		pets.PUT("/:id", h.Pets.Update)
		pets.DELETE("/:id", h.Pets.Delete)
	}

	r.GET("/customers/me", authn, customer, h.Profile.Get)
	r.PUT("/customers/me", authn, customer, h.Profile.Update)

	groomers := r.Group("/groomers", authn, admin)
	{
		groomers.GET("", h.Groomers.List)
		groomers.POST("", h.Groomers.Create)
		groomers.PUT("/:id", h.Groomers.Update)
		groomers.DELETE("/:id", h.Groomers.Delete)
	}

	adminGroup := r.Group("/admin", authn, admin)
	{
		adminGroup.GET("/dashboard", h.Dashboard.Overview)
		adminGroup.GET("/reports", h.Dashboard.GetReportSummary)
	}

	return r
}
