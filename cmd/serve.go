package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-akashdhara/internal/catalog"
	"go-akashdhara/internal/clients"
	"go-akashdhara/internal/config"
	"go-akashdhara/internal/handlers"
	"go-akashdhara/internal/observability"
	"go-akashdhara/internal/repo"
	"go-akashdhara/internal/services"
	"go-akashdhara/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const (
	sessionSweepEvery = time.Minute
	cachePruneEvery   = 24 * time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadConfig()
	logger := observability.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("configuration loaded", "listen_addr", cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kb, err := catalog.Load()
	if err != nil {
		return err
	}

	var (
		opts       []services.Option
		cacheRepo  *repo.CacheRepo
		warmCaches bool
	)

	// Persistent image cache
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		if err := repo.InitDB(ctx, pool); err != nil {
			return err
		}
		logger.Info("database schema initialized")

		cacheRepo = repo.NewCacheRepo(pool)
		opts = append(opts, services.WithImageCache(cacheRepo))
		warmCaches = true
	}

	// Launch cache
	if cfg.Redis.Addr != "" {
		client, err := repo.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		logger.Info("redis connected", "addr", cfg.Redis.Addr)

		opts = append(opts, services.WithLaunchCache(repo.NewRedisCache(client, cfg.LaunchTTL)))
		warmCaches = true
	}

	// Initialize clients
	httpClient := clients.NewHTTPClient(cfg.HTTPTimeout)
	nasaClient := clients.NewNasaClient(httpClient, cfg.Nasa.APODURL, cfg.Nasa.APIKey)
	launchClient := clients.NewLaunchLibraryClient(httpClient, cfg.LaunchURL)
	chatClient := clients.NewOpenAIClient(httpClient, cfg.OpenAI.URL, cfg.OpenAI.APIKey, clients.ChatOptions{
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	})
	if !chatClient.Configured() {
		logger.Warn("no OpenAI API key configured, AstroBot will answer with a setup notice")
	}

	// Initialize services
	spaceService := services.NewSpaceService(nasaClient, launchClient, kb, opts...)
	chatService := services.NewChatService(chatClient)
	sessions := session.NewStore(ctx, spaceService, cfg.SessionTTL, session.WithGreeting(services.Greeting))

	// Start background tasks
	go sessions.Run(ctx, sessionSweepEvery)
	if warmCaches {
		startBackgroundTasks(ctx, cfg, spaceService, cacheRepo)
	}

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinLogger())

	handler := handlers.NewHandler(spaceService, chatService, kb, sessions, time.Local)
	handlers.SetupRoutes(r, handler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("go-akashdhara service listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startBackgroundTasks(ctx context.Context, cfg *config.AppConfig, space *services.SpaceService, cacheRepo *repo.CacheRepo) {
	intervals := cfg.Intervals

	// APOD task
	runEvery(ctx, "apod", intervals.Apod, space.FetchApod)

	// Launches task
	runEvery(ctx, "launches", intervals.Launches, space.FetchLaunches)

	// Cache pruning task
	if cacheRepo != nil {
		runEvery(ctx, "cache_prune", cachePruneEvery, func(ctx context.Context) error {
			n, err := cacheRepo.Prune(ctx)
			if err == nil && n > 0 {
				observability.Logger().Info("pruned cache rows", "rows", n)
			}
			return err
		})
	}

	observability.Logger().Info("all background tasks started")
}

// runEvery runs task immediately and then on every tick until ctx is done
func runEvery(ctx context.Context, name string, every time.Duration, task func(context.Context) error) {
	go func() {
		logger := observability.WithFields("task", name)
		logger.Info("starting background task", "interval", every.String())
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			if err := task(ctx); err != nil && ctx.Err() == nil {
				logger.Error("background task failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
