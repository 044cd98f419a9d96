package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseclash/internal/catalog"
	"caseclash/internal/clock"
	"caseclash/internal/config"
	"caseclash/internal/database"
	"caseclash/internal/handlers"
	"caseclash/internal/repository"
	"caseclash/internal/security"
	"caseclash/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(database.Options{
		Type: cfg.DatabaseType,
		Path: cfg.DatabasePath,
		URL:  cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	cat, err := loadCatalog(db, cfg.CasesFile)
	if err != nil {
		log.Fatalf("Failed to load case catalog: %v", err)
	}
	log.Printf("Catalog loaded with %d cases", cat.Len())

	// Repositories
	playerRepo := repository.NewPlayerRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(playerRepo, emailService, cfg.JWTSecret, cfg.SessionDuration, cfg.AppBaseURL)
	gameService := service.NewGameService(cat, clock.System(), db, playerRepo, gameRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)
	gameHandler := handlers.NewGameHandler(gameService)
	statsHandler := handlers.NewStatsHandler(gameService)

	authLimiter := security.NewRateLimiter(10, time.Minute)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", handlers.RateLimit(authLimiter, authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", handlers.RateLimit(authLimiter, authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", handlers.RateLimit(authLimiter, authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", handlers.RateLimit(authLimiter, authHandler.ResetPassword))
	mux.HandleFunc("GET /api/auth/google", oauthHandler.Start)
	mux.HandleFunc("GET /api/auth/google/callback", oauthHandler.Callback)
	mux.HandleFunc("GET /api/daily", gameHandler.Daily)
	mux.HandleFunc("GET /api/cases", gameHandler.ListCases)
	mux.HandleFunc("GET /api/cases/{id}", gameHandler.CaseDetail)
	mux.HandleFunc("GET /api/leaderboard", statsHandler.Leaderboard)

	// Protected routes
	mux.HandleFunc("POST /api/game/daily", handlers.RequireAuth(authService, gameHandler.StartDaily))
	mux.HandleFunc("POST /api/game/case/{id}", handlers.RequireAuth(authService, gameHandler.StartCase))
	mux.HandleFunc("GET /api/game", handlers.RequireAuth(authService, gameHandler.State))
	mux.HandleFunc("POST /api/game/guess", handlers.RequireAuth(authService, gameHandler.Guess))
	mux.HandleFunc("POST /api/game/hint", handlers.RequireAuth(authService, gameHandler.Hint))
	mux.HandleFunc("GET /api/stats", handlers.RequireAuth(authService, statsHandler.Stats))
	mux.HandleFunc("GET /api/achievements", handlers.RequireAuth(authService, statsHandler.Achievements))
	mux.HandleFunc("POST /api/streak/save", handlers.RequireAuth(authService, statsHandler.SaveStreak))
	mux.HandleFunc("GET /api/games", handlers.RequireAuth(authService, statsHandler.History))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupLoop(authService)

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
}

// loadCatalog prefers the cases table and falls back to the bundled JSON
// file when the database has not been seeded yet.
func loadCatalog(db *database.DB, casesFile string) (*catalog.Catalog, error) {
	caseRepo := repository.NewCaseRepository(db)
	count, err := caseRepo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return caseRepo.LoadCatalog()
	}

	log.Printf("No cases in database, loading from %s (run the seed tool to persist them)", casesFile)
	return catalog.LoadFile(casesFile)
}

// cleanupLoop periodically removes expired sessions and reset tokens
func cleanupLoop(auth *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		auth.CleanupExpired()
	}
}
