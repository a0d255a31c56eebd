package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Moses2004/JobX/config"
	_ "github.com/Moses2004/JobX/docs" // Important for Swagger
	v1 "github.com/Moses2004/JobX/internal/delivery/http/v1"
	"github.com/Moses2004/JobX/internal/repository/postgres"
	"github.com/Moses2004/JobX/internal/usecase"
	"github.com/Moses2004/JobX/pkg/auth"
	"github.com/Moses2004/JobX/pkg/database"
	"github.com/Moses2004/JobX/pkg/logger"
	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/go-playground/validator/v10"
)

// @title           JobX API
// @version         1.0
// @description     Session and navigation backend for the JobX marketplace.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting JobX backend", "port", cfg.Port)

	// Missing Supabase settings degrade the auth surface instead of
	// stopping the process. Warn exactly once here.
	if missing := cfg.MissingSupabaseSettings(); len(missing) > 0 {
		logger.Log.Warn("Supabase not configured - auth features will be unavailable",
			"missing", strings.Join(missing, ", "))
	}

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Supabase Client
	var store supabase.SessionStore
	if cfg.SessionFile != "" {
		store = supabase.NewFileSessionStore(cfg.SessionFile)
	} else {
		store = supabase.NewMemorySessionStore()
	}
	supabaseClient := supabase.NewClient(cfg.SupabaseUrl, cfg.SupabaseAnonKey, store)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()
	supabaseClient.StartAutoRefresh(rootCtx)

	// 5. Setup Repositories and UseCases
	validate := validator.New()
	profileRepo := postgres.NewProfileRepository(dbPool)
	sessionUC := usecase.NewSessionController(supabaseClient, profileRepo, cfg.AppOrigin, validate)
	routerUC := usecase.NewViewRouter(cfg.StartupFragment)

	sessionUC.Bootstrap(rootCtx)
	go sessionUC.Run(rootCtx)
	defer sessionUC.Close()

	// 6. Setup Token Verifier (JWKS + project secret)
	jwksURL := ""
	if cfg.SupabaseUrl != "" {
		jwksURL = cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	}
	verifier := auth.NewVerifier(jwksURL, cfg.SupabaseJWTSecret)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		SessionUC: sessionUC,
		RouterUC:  routerUC,
		Supabase:  supabaseClient,
		Verifier:  verifier,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
