package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/config"
	"github.com/BruksfildServices01/catering-booking/internal/handlers"
	"github.com/BruksfildServices01/catering-booking/internal/logger"
	"github.com/BruksfildServices01/catering-booking/internal/middleware"
)

// Handlers groups everything the router mounts; cmd/api builds it.
type Handlers struct {
	Appointments  *handlers.AppointmentHandler
	Tastings      *handlers.TastingHandler
	Payments      *handlers.PaymentHandler
	Requests      *handlers.RequestHandler
	Menu          *handlers.MenuHandler
	AuditLogs     *handlers.AuditLogsHandler
	Notifications *handlers.NotificationHandler
	Webhooks      *handlers.WebhookHandler
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, log *logger.Logger, h Handlers) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/tasting/confirm", h.Tastings.Confirm)
			public.POST("/webhooks/mercadopago", h.Webhooks.MercadoPago)
			public.GET("/menu/items", h.Menu.ListItems)
			public.GET("/menu/categories", h.Menu.ListCategories)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		appointments := authed.Group("/appointments")
		{
			appointments.POST("", h.Appointments.Create)
			appointments.GET("", h.Appointments.List)
			appointments.GET("/:id", h.Appointments.Get)
			appointments.PATCH("/:id/cancel", h.Appointments.Cancel)

			appointments.PATCH("/:id/tasting/skip", h.Tastings.Skip)
			appointments.POST("/:id/tasting/reschedule-request", h.Tastings.RequestReschedule)

			appointments.POST("/:id/payments", h.Payments.Submit)
			appointments.POST("/:id/checkout", h.Payments.Checkout)

			appointments.POST("/:id/cancellation-requests", h.Requests.CreateCancellation)
			appointments.POST("/:id/reschedule-requests", h.Requests.CreateReschedule)
		}

		authed.GET("/notifications", h.Notifications.List)
		authed.PATCH("/notifications/:id/read", h.Notifications.MarkRead)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.POST("/appointments", h.Appointments.Create)
			admin.GET("/appointments", h.Appointments.List)
			admin.GET("/appointments/:id", h.Appointments.Get)
			admin.PATCH("/appointments/:id/complete", h.Appointments.Complete)

			admin.PATCH("/appointments/:id/tasting", h.Tastings.Reschedule)
			admin.PATCH("/appointments/:id/tasting/complete", h.Tastings.Complete)

			admin.PATCH("/appointments/:id/payments/verify", h.Payments.Verify)
			admin.POST("/appointments/:id/payments/walk-in", h.Payments.WalkIn)

			admin.GET("/requests", h.Requests.List)
			admin.PATCH("/cancellation-requests/:id", h.Requests.ResolveCancellation)
			admin.PATCH("/reschedule-requests/:id", h.Requests.ResolveReschedule)

			admin.POST("/menu/items", h.Menu.CreateItem)
			admin.PATCH("/menu/items/:id", h.Menu.UpdateItem)
			admin.POST("/menu/categories", h.Menu.CreateCategory)
			admin.PUT("/menu/categories/:name/price", h.Menu.SetCategoryPrice)
			admin.POST("/pricing/recalculate", h.Menu.Recalculate)

			admin.GET("/audit-logs", h.AuditLogs.List)
		}
	}
}
