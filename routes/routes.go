package routes

import (
	"net/http"
	"strings"
	"time"

	"gameon/apperrors"
	"gameon/handlers"
	"gameon/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Sessions    middleware.SessionParser
	Limiter     *middleware.IPRateLimiter
	CORSOrigins []string
}

func SetupRouter(h *handlers.Handler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/sports", h.ListSports)

	// Public auth routes
	public := api.Group("")
	if opts.Limiter != nil {
		public.Use(middleware.RateLimit(opts.Limiter))
	}
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/otp/send", h.SendOTP)
	public.POST("/otp/verify", h.VerifyOTP)
	public.GET("/auth/google/url", h.GoogleAuthURL)
	public.GET("/auth/google/callback", h.GoogleCallback)
	public.POST("/auth/google", h.GoogleCredential)

	protected := api.Group("")
	protected.Use(middleware.Auth(opts.Sessions))

	protected.GET("/me", h.GetMe)
	protected.PUT("/me/avatar", h.UploadAvatar)
	protected.POST("/session/refresh", h.RefreshSession)

	// Onboarding
	protected.PATCH("/sports-preferences", h.UpdateSportsPreferences)
	protected.POST("/user/interests", h.UpdateInterests)

	// Feed and posts
	protected.GET("/feed", h.GetFeed)
	protected.POST("/posts", h.CreatePost)

	// Connections
	protected.GET("/connections", h.ListConnections)
	protected.POST("/connections", h.RequestConnection)
	protected.POST("/connections/:id/accept", h.AcceptConnection)
	protected.POST("/connections/:id/reject", h.RejectConnection)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			middleware.Abort(c, apperrors.NotFound("Endpoint not found"))
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})

	return router
}
