package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"typetracker/internal/config"
	"typetracker/internal/database"
	"typetracker/internal/genai"
	"typetracker/internal/handlers"
	"typetracker/internal/repository"
	"typetracker/internal/security"
	"typetracker/internal/service"
)

func main() {
	// Load .env in development, ignore when absent
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	raceRepo := repository.NewRaceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Gemini client, paced to stay under the API quota
	geminiClient := genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	pacer := security.NewPacer(cfg.QuoteRequestsPerMinute)
	completer := genai.NewPaced(geminiClient, pacer.Wait)
	generator := genai.NewQuoteGenerator(completer)
	explainer := genai.NewExplainer(completer)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.AlertFromEmail, cfg.AlertToEmail)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	raceService := service.NewRaceService(raceRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	quoteService := service.NewQuoteService(quoteRepo, generator, emailService)

	// Seed the quote pool at startup
	if err := quoteService.EnsurePool(context.Background()); err != nil {
		log.Printf("Warning: failed to check quote pool: %v", err)
	}

	// Initialize handlers
	issuer := security.NewTokenIssuer(cfg.TokenSecret, cfg.TokenDuration)
	limiter := security.NewRateLimiter(60, time.Minute)
	middleware := handlers.NewMiddleware(issuer, cfg.AdminTokenHash, limiter)

	authHandler := handlers.NewAuthHandler(cfg.GoogleClientID, cfg.GoogleClientSecret,
		issuer, cfg.FrontendURL, cfg.OAuthRedirectBaseURL)
	historyHandler := handlers.NewHistoryHandler(raceService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	explainHandler := handlers.NewExplainHandler(explainer)
	raceSocket := handlers.NewRaceSocketHandler(quoteService, raceService, settingsService,
		issuer, cfg.FrontendURL)

	// Setup routes
	mux := http.NewServeMux()

	// Sign-in
	mux.HandleFunc("GET /auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.OAuthCallback)
	mux.HandleFunc("GET /api/me", middleware.Identify(authHandler.Me))

	// Races and statistics
	mux.HandleFunc("POST /api/races", middleware.Identify(historyHandler.SaveRace))
	mux.HandleFunc("GET /api/races", middleware.RequireAuth(historyHandler.History))
	mux.HandleFunc("DELETE /api/races/{id}", middleware.RequireAuth(historyHandler.DeleteRace))
	mux.HandleFunc("GET /api/stats/keys", middleware.RequireAuth(historyHandler.ProblemKeys))
	mux.HandleFunc("GET /api/stats/words", middleware.RequireAuth(historyHandler.ProblemWords))
	mux.HandleFunc("GET /api/stats/summary", middleware.RequireAuth(historyHandler.Summary))

	// Quote pool
	mux.HandleFunc("GET /api/quote", quoteHandler.RandomQuote)
	mux.HandleFunc("GET /api/quotes/status", quoteHandler.Status)
	mux.HandleFunc("DELETE /api/quotes/{id}", quoteHandler.RemoveQuote)
	mux.HandleFunc("POST /api/quotes/rotate", middleware.RequireAdmin(quoteHandler.Rotate))
	mux.HandleFunc("POST /api/quotes/stored", middleware.Identify(quoteHandler.SaveStored))
	mux.HandleFunc("GET /api/quotes/stored", middleware.RequireAuth(quoteHandler.ListStored))

	// Settings
	mux.HandleFunc("GET /api/settings/mistakes", middleware.Identify(settingsHandler.GetMistakes))
	mux.HandleFunc("PUT /api/settings/mistakes", middleware.Identify(settingsHandler.SetMistakes))

	// Explanations, rate limited per client
	mux.HandleFunc("POST /api/explain", middleware.RateLimit(explainHandler.Explain))

	// Live races
	mux.Handle("GET /ws/race", raceSocket)

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(handlers.CORS(cfg.FrontendURL)(mux))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket races outlive a fixed write window
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
