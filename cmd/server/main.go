package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordassoc/internal/ai"
	"wordassoc/internal/config"
	"wordassoc/internal/database"
	"wordassoc/internal/handlers"
	"wordassoc/internal/repository"
	"wordassoc/internal/security"
	"wordassoc/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the starter word catalogue on first run
	if err := db.SeedSampleWords(); err != nil {
		log.Printf("Warning: Failed to seed word catalogue: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewCardRepository(db)
	assocRepo := repository.NewAssociationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(userRepo, tokens)
	configService := service.NewConfigService(settingsRepo, cardRepo)

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize text generation: %v", err)
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	sessionService := service.NewSessionService(
		cardRepo,
		assocRepo,
		userRepo,
		configService,
		generator,
		emailService,
		cfg.AITimeout,
	)

	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.OAuthRedirectBaseURL + "/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, security.NewRateLimiter(30, time.Minute))
	authHandler := handlers.NewAuthHandler(authService, googleOAuth)
	gameHandler := handlers.NewGameHandler(sessionService)
	adminHandler := handlers.NewAdminHandler(cardRepo, configService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/v1/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/v1/auth/google/start", authHandler.GoogleStart)
	mux.HandleFunc("GET /api/v1/auth/google/callback", authHandler.GoogleCallback)

	// Game routes
	mux.HandleFunc("GET /api/v1/word", middleware.RequireAuth(gameHandler.GetWord))
	mux.HandleFunc("POST /api/v1/save", middleware.RequireAuth(middleware.RateLimit(gameHandler.SaveAssociations)))
	mux.HandleFunc("GET /api/v1/history", middleware.RequireAuth(gameHandler.GetHistory))

	// Admin routes
	mux.HandleFunc("GET /api/v1/admin/cards", middleware.RequireAdmin(adminHandler.ListCards))
	mux.HandleFunc("POST /api/v1/admin/cards", middleware.RequireAdmin(adminHandler.CreateCard))
	mux.HandleFunc("PATCH /api/v1/admin/cards/{id}", middleware.RequireAdmin(adminHandler.UpdateCard))
	mux.HandleFunc("DELETE /api/v1/admin/cards/{id}", middleware.RequireAdmin(adminHandler.DeleteCard))
	mux.HandleFunc("GET /api/v1/admin/categories", middleware.RequireAdmin(adminHandler.ListCategories))
	mux.HandleFunc("GET /api/v1/admin/config", middleware.RequireAdmin(adminHandler.GetConfig))
	mux.HandleFunc("PUT /api/v1/admin/config", middleware.RequireAdmin(adminHandler.UpdateConfig))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildGenerator selects the text-generation provider from config
func buildGenerator(cfg *config.Config) (ai.Generator, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AIMaxTokens), nil
	case "gemini":
		return ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIMaxTokens)
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q (want anthropic or gemini)", cfg.AIProvider)
	}
}
