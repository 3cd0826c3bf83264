package server

import (
	"context"
	"net/http"
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/booking"
	"gymclass/internal/config"
	"gymclass/internal/dashboard"
	"gymclass/internal/payment"
	"gymclass/internal/profile"
	"gymclass/internal/schedule"
	"gymclass/internal/subscription"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router. pinger backs /health; mailer backs the admin test
// email route and may be nil.
func New(cfg *config.Config, app *App, pinger Pinger, mailer Mailer) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", Health(pinger))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	profileHandler := profile.NewHandler(app.Profiles)
	scheduleHandler := schedule.NewHandler(app.Schedule, cfg.Location)
	subscriptionHandler := subscription.NewHandler(app.Subscriptions)
	paymentHandler := payment.NewHandler(app.Payments, cfg.Location)
	bookingHandler := booking.NewHandler(app.Bookings, cfg.Location)
	dashboardHandler := dashboard.NewHandler(app.Dashboard)

	authMiddleware := auth.AuthMiddleware(auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/profiles", profileHandler.CreateProfile)
		protected.GET("/me", profileHandler.GetMe)
		protected.PATCH("/me", profileHandler.UpdateMe)
		protected.GET("/me/referrals", profileHandler.ListReferrals)
		protected.GET("/me/dashboard", dashboardHandler.Me)

		protected.GET("/packages", subscriptionHandler.ListPackages)
		protected.POST("/subscriptions", subscriptionHandler.Issue)
		protected.GET("/subscriptions", subscriptionHandler.ListMine)
		protected.GET("/payments", paymentHandler.ListMine)

		protected.GET("/sessions", scheduleHandler.ListAvailable)
		protected.POST("/sessions/:id/book", bookingHandler.BookSession)
		protected.GET("/bookings", bookingHandler.ListMine)
		protected.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
	}

	trainer := router.Group("/trainer")
	trainer.Use(authMiddleware, auth.RequireAction(auth.ActionViewRoster))
	{
		trainer.GET("/sessions", scheduleHandler.TrainerSchedule)
	}

	staff := router.Group("/staff")
	staff.Use(authMiddleware, auth.RequireAction(auth.ActionCheckIn))
	{
		staff.GET("/sessions/:id/roster", bookingHandler.Roster)
		staff.POST("/checkin", bookingHandler.CheckIn)
		staff.POST("/bookings/:id/no-show", bookingHandler.MarkNoShow)
	}

	// Services re-check the actor's role; the group check only rejects early.
	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireAction(auth.ActionViewAdminDashboard))
	{
		admin.GET("/packages", subscriptionHandler.ListAllPackages)
		admin.POST("/packages", subscriptionHandler.CreatePackage)
		admin.PATCH("/packages/:id", subscriptionHandler.SetPackageActive)

		admin.POST("/rooms", scheduleHandler.CreateRoom)
		admin.GET("/rooms", scheduleHandler.ListRooms)
		admin.POST("/sessions", scheduleHandler.CreateSession)
		admin.POST("/sessions/:id/cancel", scheduleHandler.CancelSession)

		admin.GET("/approvals", subscriptionHandler.ListPendingApprovals)
		admin.POST("/subscriptions/:id/decision", subscriptionHandler.Decide)
		admin.GET("/payments/pending", paymentHandler.ListPending)

		admin.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
		admin.PATCH("/profiles/:id/role", profileHandler.SetRole)

		admin.GET("/dashboard", dashboardHandler.Admin)
		admin.GET("/analytics/bookings", bookingHandler.StatsByDay)
		admin.GET("/analytics/revenue", paymentHandler.Revenue)

		if mailer != nil {
			admin.POST("/email/test", TestEmail(mailer))
		}
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Retry-After")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
