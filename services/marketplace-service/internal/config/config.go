package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/propify-api/shared/mailer"
	"github.com/vasapolrittideah/propify-api/shared/storage"
)

const (
	// DefaultVerificationOTPTTL bounds a seller verification code.
	DefaultVerificationOTPTTL = 10 * time.Minute
	// DefaultResetOTPTTL bounds a password reset code.
	DefaultResetOTPTTL = 10 * time.Minute
	// DefaultSessionTokenTTL bounds a session token.
	DefaultSessionTokenTTL = 7 * 24 * time.Hour
)

const (
	StorageDriverDisk  = "disk"
	StorageDriverMinio = "minio"
)

// Config is the process configuration, built once at startup.
type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Token     TokenConfig
	OTP       OTPConfig
	Mailer    mailer.Config
	Google    GoogleConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Env                string        `env:"APP_ENV"              envDefault:"development"`
	Port               int           `env:"HTTP_PORT"            envDefault:"5000"`
	LogLevel           string        `env:"LOG_LEVEL"            envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT"           envDefault:"json"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	RequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,required"`
	Database string        `env:"MONGO_DATABASE" envDefault:"propify"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT"  envDefault:"10s"`
}

type TokenConfig struct {
	Secret          string        `env:"TOKEN_SECRET,required"`
	Issuer          string        `env:"TOKEN_ISSUER"             envDefault:"propify"`
	SessionTTL      time.Duration `env:"TOKEN_SESSION_EXPIRES_IN" envDefault:"168h"`
	CookieName      string        `env:"TOKEN_COOKIE_NAME"        envDefault:"token"`
	CookieSecure    bool          `env:"COOKIE_SECURE"            envDefault:"true"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	MinSecretLength int           `env:"TOKEN_MIN_SECRET_LENGTH"  envDefault:"32"`
}

type OTPConfig struct {
	VerificationTTL time.Duration `env:"OTP_VERIFICATION_TTL" envDefault:"10m"`
	ResetTTL        time.Duration `env:"OTP_RESET_TTL"        envDefault:"10m"`
}

type GoogleConfig struct {
	ClientID         string   `env:"GOOGLE_CLIENT_ID"`
	SelfServiceRoles []string `env:"OAUTH_SELF_SERVICE_ROLES" envDefault:"customer,seller" envSeparator:","`
}

type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER"          envDefault:"disk"`
	DiskRoot      string `env:"STORAGE_DISK_ROOT"       envDefault:"uploads"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/uploads"`
	MaxUploadSize int64  `env:"STORAGE_MAX_UPLOAD_BYTES" envDefault:"5242880"`
	Minio         storage.MinioConfig
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	Max    int           `env:"RATE_LIMIT_MAX"    envDefault:"20"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given environment map, or the process environment when nil.
func LoadFrom(environment map[string]string) (*Config, error) {
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}

	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if len(c.Token.Secret) < c.Token.MinSecretLength {
		errs = append(errs, fmt.Errorf("TOKEN_SECRET must be at least %d characters", c.Token.MinSecretLength))
	}
	if c.Token.SessionTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_SESSION_EXPIRES_IN must be positive"))
	}
	if c.OTP.VerificationTTL <= 0 || c.OTP.ResetTTL <= 0 {
		errs = append(errs, errors.New("OTP TTLs must be positive"))
	}
	if c.App.IsProduction() && !c.Token.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SECURE must be true in production"))
	}
	if c.App.IsProduction() && c.Google.ClientID == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required in production"))
	}
	for _, role := range c.Google.SelfServiceRoles {
		if role != "customer" && role != "seller" {
			errs = append(errs, fmt.Errorf("OAUTH_SELF_SERVICE_ROLES contains unknown role %q", role))
		}
	}
	if !slices.Contains([]string{StorageDriverDisk, StorageDriverMinio}, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Storage.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("STORAGE_MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}
