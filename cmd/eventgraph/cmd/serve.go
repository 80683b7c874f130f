package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"eventgraph/config"
	_ "eventgraph/docs"
	"eventgraph/internal/adapters/auth"
	"eventgraph/internal/adapters/email"
	"eventgraph/internal/delivery/graphql"
	delivery "eventgraph/internal/delivery/http"
	"eventgraph/internal/delivery/http/middleware"
	"eventgraph/internal/metrics"
	"eventgraph/internal/repository"
	"eventgraph/internal/services"
	"eventgraph/internal/telemetry"
)

var serverPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL HTTP server",
	Long: `Start the HTTP server and accept GraphQL requests on /graphql.

The server will:
- Load configuration from environment variables (and .env outside production)
- Connect to the store named by STORE_DRIVER
- Serve /graphql, /healthz, /metrics and /swagger/
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  eventgraph serve

  # Start on a specific port with debug logging
  eventgraph serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: PORT or 8080)")
}

func runServer(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}
	if parent == nil {
		parent = context.Background()
	}

	logger := config.NewLogger(cfg)
	logger.Info("starting eventgraph", "version", Version, "store", cfg.StoreDriver)

	metrics.Init()

	shutdownTracing, err := telemetry.InitTracing(parent, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing setup failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("tracing shutdown error", "error", err)
		}
	}()

	connectCtx, connectCancel := context.WithTimeout(parent, 10*time.Second)
	store, err := openBackend(connectCtx, cfg)
	connectCancel()
	if err != nil {
		return fmt.Errorf("store connection failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	handler, err := buildHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// buildHandler wires repositories, services and resolvers into the router.
func buildHandler(cfg *config.Config, store *backend, logger *slog.Logger) (http.Handler, error) {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	events := repository.WithEventSchema(store.Events)
	users := repository.WithUserSchema(store.Users, hasher)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer setup failed: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventService := services.NewEventService(events, users, store.Tx, cfg.RequestTimeout)
	userService := services.NewUserService(users, emailService, logger, cfg.RequestTimeout)

	if cfg.DefaultCreatorID == "" {
		logger.Warn("DEFAULT_CREATOR_ID not set; createEvent requires a bearer token")
	}
	resolver := graphql.NewResolver(eventService, userService, cfg.DefaultCreatorID, logger)
	schema, err := graphql.NewSchema(resolver, logger)
	if err != nil {
		return nil, fmt.Errorf("schema parse failed: %w", err)
	}

	routerCfg := delivery.RouterConfig{
		GraphQL:        delivery.NewGraphQLHandler(schema, cfg.GraphiQL, logger),
		Health:         delivery.HealthHandler(store.Pinger, logger),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	}
	if cfg.JWTSecret != "" {
		routerCfg.Identify = middleware.Identify(auth.NewJWTVerifier(cfg.JWTSecret))
	} else {
		logger.Warn("JWT_SECRET not set; bearer tokens are ignored")
	}
	if cfg.IsProduction() && len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		logger.Warn("CORS allows every origin in production")
	}
	return delivery.NewRouter(routerCfg), nil
}
