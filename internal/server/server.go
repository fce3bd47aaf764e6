package server

import (
	"fmt"
	"os"

	"github.com/P-ZeN/be-out-apps-sub001/config"
	"github.com/P-ZeN/be-out-apps-sub001/internal/handlers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/middleware"
	"github.com/P-ZeN/be-out-apps-sub001/internal/moderation"
	"github.com/gin-gonic/gin"
	"github.com/xendit/xendit-go/v6"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	xenditCfg, err := config.LoadXenditConfig()
	if err != nil {
		return fmt.Errorf("failed to load xendit config: %v", err)
	}
	xenditClient, err := config.InitXenditClient(xenditCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize xendit client: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db, xenditClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, xenditClient *xendit.APIClient) {
	workflow := moderation.NewWorkflow(moderation.NewGormStore(db), moderation.LogNotifier{})

	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.WorkflowMiddleware(workflow))
	r.Use(middleware.XenditMiddleware(xenditClient))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/categories", handlers.ListCategories)
		public.POST("/payments/xendit/callback", handlers.XenditInvoiceCallback)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		venuePublic := public.Group("/venues")
		{
			venuePublic.GET("", handlers.ListVenues)
			venuePublic.GET("/:id", handlers.GetVenue)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.GET("/my-events", handlers.ListMyEvents)
		protected.POST("/categories", handlers.CreateCategory)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)

			eventProtected.PATCH("/:id/submit", handlers.SubmitEvent)
			eventProtected.PATCH("/:id/revert", handlers.RevertEvent)
			eventProtected.PATCH("/:id/publish", handlers.PublishEvent)
			eventProtected.PATCH("/:id/toggle-publication", handlers.TogglePublicationIntent)
			eventProtected.GET("/:id/status-history", handlers.GetStatusHistory)
		}

		venueProtected := protected.Group("/venues")
		{
			venueProtected.POST("", handlers.CreateVenue)
			venueProtected.PUT("/:id", handlers.UpdateVenue)
			venueProtected.DELETE("/:id", handlers.DeleteVenue)
		}

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.POST("", handlers.CreateTicket)
			ticketProtected.GET("/:id", handlers.GetTicket)
			ticketProtected.PUT("/:id", handlers.UpdateTicket)
			ticketProtected.DELETE("/:id", handlers.DeleteTicket)
		}

		bookingProtected := protected.Group("/bookings")
		{
			bookingProtected.POST("", handlers.CreateBooking)
			bookingProtected.GET("/:id/qr", handlers.GenerateBookingQR)
			bookingProtected.POST("/validate", handlers.ValidateBooking)
		}
	}

	admin := r.Group("/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/events", handlers.ListModerationQueue)
		admin.PATCH("/events/:id/moderate", handlers.ModerateEvent)
		admin.GET("/events/:id/status-history", handlers.GetStatusHistory)
	}
}
