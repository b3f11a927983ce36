package routes

import (
	"net/http"
	"time"

	"wellportal/handlers"
	"wellportal/middleware"
	"wellportal/services/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAuthRoutes registers the public session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/auth")
	{
		api.POST("/login", hb.Auth.LoginHandler)
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/logout", hb.Auth.LogoutHandler)
		api.POST("/refresh", hb.Auth.RefreshHandler)
		api.POST("/forgot-password", hb.Auth.ForgotPasswordHandler)
		api.POST("/reset-password", hb.Auth.ResetPasswordHandler)
	}
}

// RegisterPageRoutes registers the role-guarded dashboard pages.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	page := handlers.PageHandler(hb.WebDir)
	r.GET(middleware.LoginRoute, page)
	r.GET(middleware.UnauthorizedRoute, page)

	r.GET("/user/dashboard", middleware.PageGuard(hb.Guard, hb.Sessions, auth.PatientOnly...), page)
	r.GET("/practitioner/dashboard", middleware.PageGuard(hb.Guard, hb.Sessions, auth.PractitionerOnly...), page)
	r.GET("/practitioner/onboarding", middleware.PageGuard(hb.Guard, hb.Sessions, auth.PractitionerOnly...), page)
	r.GET("/admin/dashboard", middleware.PageGuard(hb.Guard, hb.Sessions, auth.AdminOnly...), page)
}

// RegisterPortalRoutes registers the JSON API the portal pages call.
func RegisterPortalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	anyRole := middleware.APIGuard(hb.Guard, hb.Sessions, auth.AnyRole...)
	patient := middleware.APIGuard(hb.Guard, hb.Sessions, auth.PatientOnly...)
	staff := middleware.APIGuard(hb.Guard, hb.Sessions, auth.StaffOnly...)
	practitioner := middleware.APIGuard(hb.Guard, hb.Sessions, auth.PractitionerOnly...)
	admin := middleware.APIGuard(hb.Guard, hb.Sessions, auth.AdminOnly...)

	api := r.Group("/portal/api")
	{
		api.GET("/me", anyRole, hb.Auth.MeHandler)
		api.GET("/notices", anyRole, handlers.NoticesHandler(hb.Notices))

		calendar := api.Group("/calendar/:practitionerId", patient)
		calendar.GET("", hb.Calendar.GetCalendarHandler)
		calendar.POST("/date", hb.Calendar.SelectDateHandler)
		calendar.POST("/slot", hb.Calendar.SelectSlotHandler)
		calendar.POST("/book", hb.Calendar.BookHandler)

		api.GET("/sessions", patient, hb.SessionList.MySessionsHandler)
		api.PUT("/sessions/:id/cancel", anyRole, hb.SessionList.CancelHandler)
		api.PUT("/sessions/:id/reschedule", anyRole, hb.SessionList.RescheduleHandler)

		api.GET("/practitioners/:practitionerId/availability", anyRole, hb.Availability.ListHandler)
		api.GET("/practitioners/:practitionerId/slots", anyRole, hb.Availability.SlotsHandler)
		api.POST("/practitioners/:practitionerId/availability", staff, hb.Availability.SetHandler)
		api.GET("/practitioners/:practitionerId/sessions", staff, hb.SessionList.PractitionerSessionsHandler)
		api.POST("/availability/preview", staff, hb.Availability.PreviewHandler)

		api.GET("/practitioner/onboarding-status", practitioner, hb.Auth.OnboardingStatusHandler)
		api.GET("/admin/booking-attempts", admin, hb.Admin.BookingAttemptsHandler)
	}
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.LoginRoute)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.TraceIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterPageRoutes(r, hb)
	RegisterPortalRoutes(r, hb)
}
