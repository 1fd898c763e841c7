package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/georgemunganga/shopswift/internal/config"
	"github.com/georgemunganga/shopswift/internal/latency"
	"github.com/georgemunganga/shopswift/internal/logger"
	"github.com/georgemunganga/shopswift/internal/middleware"
	"github.com/georgemunganga/shopswift/internal/modules/auth"
	"github.com/georgemunganga/shopswift/internal/modules/cart"
	"github.com/georgemunganga/shopswift/internal/modules/catalog"
	"github.com/georgemunganga/shopswift/internal/modules/user"
	"github.com/georgemunganga/shopswift/internal/storage"
)

const devJWTSecret = "shopswift-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	log.Info().Str("env", cfg.Env).Msg("ShopSwift API starting")
	if !cfg.EnvFileLoaded {
		log.Debug().Msg(".env file not found, using environment and defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Session storage ─────────────────────────────────────
	var store storage.Store
	switch cfg.StorageDriver {
	case "redis":
		client := storage.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
		}
		store = storage.NewRedisStore(client, "shopswift:", cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Session records stored in redis")
	default:
		store = storage.NewMemoryStore()
		log.Info().Msg("Session records stored in memory")
	}

	// ── Product store ───────────────────────────────────────
	var productRepo catalog.Repository
	switch cfg.CatalogDriver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to the database")
		}
		if err := catalog.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to create products schema")
		}
		if err := catalog.SeedPostgres(ctx, db, catalog.SeedProducts()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed products")
		}
		productRepo = catalog.NewPostgresRepository(db)
		log.Info().Msg("Products stored in postgres")
	default:
		var opts []catalog.MemoryOption
		if cfg.SimulateLatency {
			opts = append(opts, catalog.WithLatency(latency.Mock, latency.Sleep))
		}
		productRepo = catalog.NewMemoryRepository(catalog.SeedProducts(), opts...)
		log.Info().Bool("simulate_latency", cfg.SimulateLatency).Msg("Products stored in memory")
	}

	// ── Services ────────────────────────────────────────────
	catalogService := catalog.NewService(productRepo, log)
	cartService := cart.NewService(store, cfg.CartIdleTTL, log)

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SECRET is required in production")
		}
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}
	var authOpts []auth.Option
	if cfg.SimulateLatency {
		authOpts = append(authOpts, auth.WithLatency(latency.Mock.Auth, latency.Sleep))
	}
	authService := auth.NewService(user.NewStorageRepository(store), secret, cfg.TokenTTL, log, authOpts...)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.RequestLogging(log))
	router.Use(chimw.Recoverer)
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst).Middleware())

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(authService, log))
		auth.NewHandler(authService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		cart.NewHandler(cartService, catalogService).RegisterRoutes(r)
	})

	// ── Idle cart sweeper ───────────────────────────────────
	if cfg.CartIdleTTL > 0 {
		go sweepCarts(ctx, cartService, cfg.CartIdleTTL)
	}

	// ── Start Server ────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("ShopSwift API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

// sweepCarts evicts idle carts until ctx is done.
func sweepCarts(ctx context.Context, carts cart.Service, idleTTL time.Duration) {
	interval := idleTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			carts.Sweep(now)
		}
	}
}
