package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameon/account"
	"gameon/auth"
	"gameon/config"
	"gameon/database"
	"gameon/feed"
	"gameon/handlers"
	"gameon/mailer"
	"gameon/media"
	"gameon/middleware"
	"gameon/otp"
	"gameon/routes"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	log.Println("Starting GameOn API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	log.Printf("Running in %s mode", gin.Mode())

	client, err := connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	log.Println("MongoDB connected successfully")

	store := database.NewStore(client, cfg.MongoDatabase)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(idxCtx); err != nil {
		log.Printf("[Database] Ensure indexes failed: %v", err)
	}
	idxCancel()

	sessions := auth.NewSessionIssuer(cfg.JWTSecret, cfg.SessionMaxAge, nil)

	deps := handlers.Deps{
		Feed:             feed.NewSelector(store, nil),
		Registrar:        account.NewRegistrar(store, nil),
		Authenticator:    auth.NewAuthenticator(store, nil),
		Sessions:         sessions,
		Users:            store,
		OTP:              otp.NewService(store, mailer.New(cfg), nil),
		Onboarding:       account.NewOnboarding(store),
		Connections:      account.NewConnections(store, nil),
		Posts:            account.NewPosts(store, nil),
		Avatars:          media.NewAvatars(uploader(cfg), store),
		DB:               store,
		FeedDefaultLimit: cfg.FeedDefaultLimit,
		FeedMaxLimit:     cfg.FeedMaxLimit,
		RequestTimeout:   cfg.RequestTimeout,
		SecureCookies:    gin.Mode() == gin.ReleaseMode,
	}
	if cfg.GoogleEnabled() {
		deps.Google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		log.Println("[Google] GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	router := routes.SetupRouter(handlers.New(deps), routes.Options{
		Sessions:    sessions,
		Limiter:     middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, time.Minute),
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Forced shutdown: ", err)
	}
	if err := database.Disconnect(ctx, client); err != nil {
		log.Println("MongoDB disconnect: ", err)
	}

	log.Println("Server stopped gracefully")
}

// connect retries the initial connection a few times so the server survives
// a database that is still starting.
func connect(uri string) (*mongo.Client, error) {
	var err error
	for i := 1; i <= 3; i++ {
		var client *mongo.Client
		client, err = database.Connect(context.Background(), uri)
		if err == nil {
			return client, nil
		}
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func uploader(cfg *config.Config) media.Uploader {
	if cfg.CloudinaryURL == "" {
		log.Println("[Media] CLOUDINARY_URL not set, avatar uploads disabled")
		return media.Disabled{}
	}
	u, err := media.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Printf("[Media] Cloudinary setup failed, avatar uploads disabled: %v", err)
		return media.Disabled{}
	}
	return u
}
