package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/handler"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/auth"
	"github.com/vasapolrittideah/propify-api/shared/mailer"
	"github.com/vasapolrittideah/propify-api/shared/metrics"
	"github.com/vasapolrittideah/propify-api/shared/provider"
	"github.com/vasapolrittideah/propify-api/shared/ratelimit"
	"github.com/vasapolrittideah/propify-api/shared/security"
	"github.com/vasapolrittideah/propify-api/shared/storage"
)

const metricsNamespace = "propify"

// Server owns the HTTP listener and the connections it depends on.
type Server struct {
	httpServer  *http.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	cfg         *config.Config
	logger      *zerolog.Logger
}

// ConnectMongo opens a client and pings the primary.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) error {
	if err := repository.EnsureUserIndexes(ctx, logger, db); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := repository.EnsureListingIndexes(ctx, logger, db); err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}
	return nil
}

// New wires repositories, usecases and the router.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	mongoClient, err := ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	s := &Server{mongoClient: mongoClient, cfg: cfg, logger: logger}

	router, err := s.buildRouter(ctx)
	if err != nil {
		s.close()
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) buildRouter(ctx context.Context) (http.Handler, error) {
	cfg := s.cfg
	db := s.mongoClient.Database(cfg.Mongo.Database)

	if err := EnsureIndexes(ctx, s.logger, db); err != nil {
		return nil, err
	}

	notifier, err := mailer.NewMailer(cfg.Mailer)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}

	objectStorage, uploadsDir, err := s.newObjectStorage(ctx)
	if err != nil {
		return nil, err
	}

	limiter, err := s.newLimiter(ctx)
	if err != nil {
		return nil, err
	}

	var googleVerifier usecase.GoogleIdentityVerifier
	if cfg.Google.ClientID != "" {
		googleVerifier = provider.NewGoogleOAuthProvider(cfg.Google.ClientID)
	} else {
		s.logger.Warn().Msg("GOOGLE_CLIENT_ID not set, google sign-in trusts the request body")
	}

	userRepo := repository.NewUserMongoRepository(db)
	listingRepo := repository.NewListingMongoRepository(db)

	hasher := security.NewHasher(security.HashParams{})
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Issuer)
	tokens := usecase.NewSessionTokenIssuer(jwtAuth, cfg.Token.SessionTTL)

	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens, notifier, googleVerifier, cfg, s.logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, hasher, notifier, cfg)
	userUsecase := usecase.NewUserUsecase(userRepo, hasher, objectStorage, cfg.Storage.MaxUploadSize, s.logger)
	listingUsecase := usecase.NewListingUsecase(listingRepo)

	m := metrics.New(metricsNamespace)

	return handler.NewRouter(handler.RouterConfig{
		Logger:             s.logger,
		Metrics:            m,
		CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		RequestTimeout:     cfg.App.RequestTimeout,
		Sessions:           tokens,
		CookieName:         cfg.Token.CookieName,
		Limiter:            limiter,
		Health: func(ctx context.Context) error {
			return s.mongoClient.Ping(ctx, readpref.Primary())
		},
		UploadsDir:  uploadsDir,
		UploadsPath: cfg.Storage.PublicBaseURL,
		Auth:        handler.NewAuthHandler(authUsecase, passwordResetUsecase, cfg.Token, m),
		User:        handler.NewUserHandler(userUsecase, cfg.Storage.MaxUploadSize),
		Listing:     handler.NewListingHandler(listingUsecase),
	}), nil
}

// newObjectStorage returns the configured backend and, for the disk backend,
// the directory to serve publicly.
func (s *Server) newObjectStorage(ctx context.Context) (storage.ObjectStorage, string, error) {
	switch s.cfg.Storage.Driver {
	case config.StorageDriverMinio:
		client, err := storage.NewMinioClient(s.cfg.Storage.Minio)
		if err != nil {
			return nil, "", fmt.Errorf("minio: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, "", fmt.Errorf("minio bucket: %w", err)
		}
		return client, "", nil
	default:
		disk := storage.NewDiskStorage(s.cfg.Storage.DiskRoot, s.cfg.Storage.PublicBaseURL)
		if err := disk.EnsureBucket(ctx); err != nil {
			return nil, "", fmt.Errorf("upload directory: %w", err)
		}
		return disk, disk.Root(), nil
	}
}

// newLimiter returns nil when REDIS_URL is unset.
func (s *Server) newLimiter(ctx context.Context) (middleware.Limiter, error) {
	if s.cfg.Redis.URL == "" {
		s.logger.Warn().Msg("REDIS_URL not set, auth rate limiting disabled")
		return nil, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, s.cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	s.redisClient = client

	limiter, err := ratelimit.NewLimiter(client, ratelimit.Config{
		Window: s.cfg.RateLimit.Window,
		Max:    s.cfg.RateLimit.Max,
		Prefix: "propify:ratelimit:",
	})
	if err != nil {
		return nil, err
	}

	return limiter, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	return s.Shutdown()
}

// Shutdown drains in-flight requests and closes connections.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.App.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.close()

	return err
}

func (s *Server) close() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if s.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to disconnect mongo client")
		}
	}
}
