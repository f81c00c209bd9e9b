package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/layer-3/jumper/adapters/balances"
	"github.com/layer-3/jumper/adapters/events"
	"github.com/layer-3/jumper/adapters/store"
	"github.com/layer-3/jumper/adapters/tokenizer"
	"github.com/layer-3/jumper/adapters/verifier"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/internal/config"
	"github.com/layer-3/jumper/internal/db"
	"github.com/layer-3/jumper/internal/eth"
	"github.com/layer-3/jumper/ports"
	"github.com/layer-3/jumper/service"
	httptransport "github.com/layer-3/jumper/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", cfg.HTTPAddr), slog.String("env", cfg.Env))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// app holds the wired handler and everything that must be released on exit
type app struct {
	Handler http.Handler
	closers []func() error
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to close resource", slog.Any("error", err))
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	checks := map[string]httptransport.HealthCheck{}

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		a.closers = append(a.closers, redisClient.Close)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var pool *pgxpool.Pool
	if cfg.WalletStore == config.StorePostgres {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		checks["postgres"] = pool.Ping
	}

	var walletStore ports.WalletStore
	switch cfg.WalletStore {
	case config.StoreRedis:
		walletStore = store.NewRedisWalletStore(redisClient, eth.NewNonce)
	case config.StorePostgres:
		walletStore = store.NewPostgresWalletStore(pool, eth.NewNonce)
	default:
		walletStore = store.NewMemoryWalletStore(eth.NewNonce)
	}

	var sessionStore ports.SessionStore
	switch cfg.SessionStore {
	case config.StoreRedis:
		sessionStore = store.NewRedisSessionStore(redisClient)
	default:
		sessionStore = store.NewMemorySessionStore()
	}

	eventPub := events.NewNoopPublisher()
	if cfg.EventsEnabled {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewSlogLogger(slog.Default()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis publisher: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		eventPub = events.NewWatermillPublisher(publisher, cfg.EventsTopicPrefix)
	}

	if cfg.RPCAPIKey == "" {
		slog.Warn("RPC_API_KEY is not set, balance queries will fail")
	}

	sessions := service.NewSessionService(
		sessionStore,
		tokenizer.NewJWTTokenizer(cfg.SessionSecret, cfg.AppName),
		cfg.SessionTTL(),
	)
	authService := service.NewAuthService(
		service.NewWalletService(walletStore),
		verifier.NewSiweVerifier(cfg.SIWEDomain),
		sessions,
		eventPub,
	)
	tokenService := service.NewTokenService(
		balances.NewAlchemyProvider(balances.URLTemplate(cfg.RPCURLTemplate, cfg.RPCAPIKey)),
		core.DefaultChains,
		cfg.ChainTimeout(),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.SetupRouter(authService, tokenService, httptransport.RouterConfig{
		Cookie: httptransport.CookieConfig{
			Name:   cfg.SessionName,
			MaxAge: cfg.SessionTTL(),
			Secure: cfg.IsProduction(),
		},
		HealthChecks: checks,
	})

	a.Handler = router
	if cfg.CORSEnabled {
		a.Handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(router)
	}

	return a, nil
}
