package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DERMAGO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "DERMAGO_APP_ENV"
	EnvPort                   = "DERMAGO_APP_PORT"
	EnvDBDSN                  = "DERMAGO_DB_DSN"
	EnvRedisURL               = "DERMAGO_REDIS_URL"
	EnvJWTSecret              = "DERMAGO_JWT_SECRET"
	EnvJWTIssuer              = "DERMAGO_JWT_ISSUER"
	EnvJWTExpMins             = "DERMAGO_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "DERMAGO_REFRESH_TOKEN_TTL_MINUTES"
	EnvGeminiAPIKey           = "DERMAGO_GEMINI_API_KEY"
	EnvGeminiModel            = "DERMAGO_GEMINI_MODEL"
	EnvGoogleMapsAPIKey       = "DERMAGO_GOOGLE_MAPS_API_KEY"
	EnvGoogleOAuthClientID    = "DERMAGO_GOOGLE_OAUTH_CLIENT_ID"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gemini        GeminiConfig
	GoogleMaps    GoogleMapsConfig
	GoogleOAuth   GoogleOAuthConfig
	Places        PlacesConfig
	Scans         ScansConfig
	Generation    GenerationConfig
	CORS          CORSConfig
}

// Load reads the process environment. Every collaborator credential is
// required; a missing one fails here instead of at first use.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("%s must not be blank", EnvJWTSecret)
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTExpMins)
	}
	if c.JWT.RefreshTokenTTL() <= time.Duration(c.JWT.ExpirationMinutes)*time.Minute {
		return fmt.Errorf("%s must exceed the access token ttl", EnvRefreshTokenTTLMinutes)
	}
	for env, value := range map[string]string{
		EnvGeminiAPIKey:        c.Gemini.APIKey,
		EnvGoogleMapsAPIKey:    c.GoogleMaps.APIKey,
		EnvGoogleOAuthClientID: c.GoogleOAuth.ClientID,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be blank", env)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"DERMAGO_APP_ENV" required:"true"`
	Port         string `envconfig:"DERMAGO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DERMAGO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DERMAGO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DERMAGO_DB_DSN" required:"true"`
	Driver string `envconfig:"DERMAGO_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"DERMAGO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DERMAGO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DERMAGO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DERMAGO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DERMAGO_REDIS_URL" required:"true"`
	Password     string        `envconfig:"DERMAGO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DERMAGO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DERMAGO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DERMAGO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DERMAGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DERMAGO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DERMAGO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DERMAGO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DERMAGO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DERMAGO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DERMAGO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
	CookieSecure           bool   `envconfig:"DERMAGO_JWT_COOKIE_SECURE" default:"true"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DERMAGO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DERMAGO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DERMAGO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DERMAGO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DERMAGO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"DERMAGO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"DERMAGO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"DERMAGO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"DERMAGO_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"DERMAGO_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"DERMAGO_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DERMAGO_AUTO_MIGRATE" default:"false"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"DERMAGO_GEMINI_API_KEY" required:"true"`
	Model   string        `envconfig:"DERMAGO_GEMINI_MODEL" default:"gemini-flash-latest"`
	Timeout time.Duration `envconfig:"DERMAGO_GEMINI_TIMEOUT" default:"60s"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"DERMAGO_GOOGLE_MAPS_API_KEY" required:"true"`
}

type GoogleOAuthConfig struct {
	ClientID string `envconfig:"DERMAGO_GOOGLE_OAUTH_CLIENT_ID" required:"true"`
}

type PlacesConfig struct {
	RadiusMeters int           `envconfig:"DERMAGO_PLACES_RADIUS_METERS" default:"10000"`
	CacheTTL     time.Duration `envconfig:"DERMAGO_PLACES_CACHE_TTL" default:"10m"`
	FallbackLat  float64       `envconfig:"DERMAGO_PLACES_FALLBACK_LAT" default:"30.7333"`
	FallbackLng  float64       `envconfig:"DERMAGO_PLACES_FALLBACK_LNG" default:"76.7794"`
}

type ScansConfig struct {
	MaxUploadMB int `envconfig:"DERMAGO_SCANS_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (s ScansConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

type GenerationConfig struct {
	LockTTL time.Duration `envconfig:"DERMAGO_GENERATION_LOCK_TTL" default:"2m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DERMAGO_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// LoadDB reads only the database settings, for tools such as migrations that
// must not require collaborator credentials.
func LoadDB() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg.App); err != nil {
		return nil, fmt.Errorf("parsing app config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.DB); err != nil {
		return nil, fmt.Errorf("parsing db config: %w", err)
	}
	return &cfg, nil
}
