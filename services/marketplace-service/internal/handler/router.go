package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/shared/metrics"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Logger             *zerolog.Logger
	Metrics            *metrics.Metrics
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	Sessions   middleware.SessionVerifier
	CookieName string
	// Limiter may be nil to disable throttling of the auth endpoints.
	Limiter middleware.Limiter
	Health  func(ctx context.Context) error

	// UploadsDir is served under UploadsPath when set and UploadsPath is a path.
	UploadsDir  string
	UploadsPath string

	Auth    *AuthHandler
	User    *UserHandler
	Listing *ListingHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(hlog.NewHandler(*cfg.Logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utilities.WriteJSON(w, http.StatusNotFound, payload.Fail("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utilities.WriteJSON(w, http.StatusMethodNotAllowed, payload.Fail("Method not allowed"))
	})

	r.Get("/healthz", healthHandler(cfg.Health))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.UploadsDir != "" && strings.HasPrefix(cfg.UploadsPath, "/") {
		fs := http.StripPrefix(cfg.UploadsPath, http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Method(http.MethodGet, cfg.UploadsPath+"/*", fs)
	}

	authenticate := middleware.Authenticate(cfg.Sessions, cfg.CookieName)
	limit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimit(cfg.Limiter, scope)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(limit("signup")).Post("/signup", cfg.Auth.Signup)
		r.With(limit("login")).Post("/login", cfg.Auth.Login)
		r.Post("/logout", cfg.Auth.Logout)
		r.With(limit("google")).Post("/google", cfg.Auth.GoogleSignIn)
		r.With(limit("verify-otp")).Post("/verify-otp", cfg.Auth.VerifySellerOTP)
		r.With(limit("resend-otp")).Post("/resend-otp", cfg.Auth.ResendSellerOTP)
		r.With(limit("forgot-password")).Post("/forgot-password", cfg.Auth.ForgotPassword)
		r.With(limit("verify-reset-otp")).Post("/verify-reset-otp", cfg.Auth.VerifyResetOTP)
		r.With(limit("reset-password")).Post("/reset-password", cfg.Auth.ResetPassword)
		r.With(authenticate).Post("/upload-profile-picture", cfg.User.UploadProfilePicture)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(authenticate)
		r.Put("/update-user", cfg.User.UpdateUser)
		r.Post("/upload-profile-picture", cfg.User.UploadProfilePicture)
	})

	r.Route("/api/listings", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/create", cfg.Listing.CreateListing)
	})

	return r
}

func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
				_ = utilities.WriteJSON(w, http.StatusServiceUnavailable, payload.Fail("unhealthy"))
				return
			}
		}
		_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("ok"))
	}
}
