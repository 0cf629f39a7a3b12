// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"plus-service/internal/client/newsletter"
	"plus-service/internal/client/subscription"
	"plus-service/internal/config"
	"plus-service/internal/db"
	authHandler "plus-service/internal/handlers/auth"
	healthHandler "plus-service/internal/handlers/health"
	newsletterHandler "plus-service/internal/handlers/newsletter"
	settingsHandler "plus-service/internal/handlers/settings"
	whoamiHandler "plus-service/internal/handlers/whoami"
	"plus-service/internal/middleware"
	"plus-service/internal/pkg/jwt"
	"plus-service/internal/pkg/session"
	"plus-service/internal/repository/postgres"
	authUsecase "plus-service/internal/service/auth"
	"plus-service/internal/service/entitlement"
	"plus-service/internal/service/identity"
	newsletterUsecase "plus-service/internal/service/newsletter"
	settingsUsecase "plus-service/internal/service/settings"
	whoamiUsecase "plus-service/internal/service/whoami"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg        config.AppConfig
	logger     *zap.Logger
	httpServer *http.Server
	pool       *pgxpool.Pool
	redis      *redis.Client
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start connects to storage, wires the application and serves HTTP until
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: s.cfg.DatabaseURL, MaxConns: s.cfg.DBMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	database := postgres.NewDB(pool)
	if err := database.RunMigrations(ctx); err != nil {
		return err
	}
	s.logger.Info("postgres ready", zap.Int32("max_conns", s.cfg.DBMaxConns))

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return err
	}
	s.redis = redisClient
	s.logger.Info("redis ready")

	// ----- Session & Provider -----
	codec, err := session.NewCodec(s.cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to build session codec: %w", err)
	}
	verifier, err := jwt.LoadVerifier(s.cfg.Provider)
	if err != nil {
		return fmt.Errorf("failed to load provider verifier: %w", err)
	}
	revocations := session.NewRevocationStore(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.SignupMaxAttempts, s.cfg.SignupWindow)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	// ----- Collaborators -----
	subscriptions := subscription.NewClient(s.cfg.SubscriptionsURL, s.cfg.SubscriptionsTimeout)
	basket := newsletter.NewClient(newsletter.Config{
		BaseURL:      s.cfg.BasketURL,
		APIKey:       s.cfg.BasketAPIKey,
		NewsletterID: s.cfg.NewsletterID,
		Timeout:      s.cfg.NewsletterTimeout,
	})

	// ----- Services (Usecases) -----
	loader := identity.NewLoader(userRepo)
	aggregator := entitlement.NewAggregator(subscriptions, basket, settingsRepo, entitlement.Config{
		SubscriptionTimeout: s.cfg.SubscriptionsTimeout,
		NewsletterTimeout:   s.cfg.NewsletterTimeout,
	}, s.logger)
	whoamiService := whoamiUsecase.NewService(loader, aggregator, s.logger)
	settingsService := settingsUsecase.NewSettingsService(settingsRepo, s.cfg.SupportedLocales, s.logger)
	newsletterService := newsletterUsecase.NewNewsletterService(basket, userRepo, settingsRepo, s.logger)
	authService := authUsecase.NewAuthService(verifier, userRepo, codec, revocations, s.logger)

	// ----- Handlers -----
	cookies := session.NewCookieWriter(s.cfg.Session)
	handlers := &Handlers{
		AuthHandler:       authHandler.NewAuthHandler(authService, cookies, s.logger),
		WhoamiHandler:     whoamiHandler.NewWhoamiHandler(whoamiService, s.logger),
		SettingsHandler:   settingsHandler.NewSettingsHandler(settingsService, s.logger),
		NewsletterHandler: newsletterHandler.NewNewsletterHandler(newsletterService, rateLimiter, s.logger),
		HealthHandler: healthHandler.NewHealthHandler(map[string]healthHandler.Check{
			"postgres": database.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}, s.logger),
		SessionMiddleware: middleware.NewSessionMiddleware(codec, revocations, cookies.Name(), s.logger),
	}

	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := NewEngine(s.cfg.TrustedProxies)
	if err != nil {
		return err
	}
	SetupRouter(engine, s.logger, handlers)

	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
