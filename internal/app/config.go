package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/JithuMorrison/Lingzee/internal/data/db"
	"github.com/JithuMorrison/Lingzee/internal/observability"
	"github.com/JithuMorrison/Lingzee/internal/platform/envutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

const devJWTSecret = "lingzee-dev-secret"

type Config struct {
	Port            string
	LogMode         string
	ShutdownTimeout time.Duration

	DBDriver string
	DSN      string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	UploadDir             string
	ThumbnailBucket       string
	ThumbnailCDNDomain    string
	ThumbnailEmulatorHost string
	GCPCredentials        string
	ThumbnailMaxWidth     int
	ThumbnailMaxHeight    int

	CORSAllowedOrigins []string

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	Otel observability.OtelConfig
}

// LoadDotEnv reads .env (or ENV_FILE) when present. Variables already set in
// the environment win.
func LoadDotEnv(log *logger.Logger) {
	path := envutil.String("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("Could not load env file", "path", path, "error", err)
		}
		return
	}
	log.Info("Loaded env file", "path", path)
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),

		JWTSecretKey:   envutil.FirstString("", "JWT_SECRET_KEY", "SECRET_KEY"),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", services.DefaultAccessTTL),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		RedisChannel:  envutil.String("REDIS_CHANNEL", "lingzee:sse"),

		UploadDir:             envutil.String("UPLOAD_DIR", "uploads"),
		ThumbnailBucket:       envutil.String("THUMBNAIL_GCS_BUCKET", ""),
		ThumbnailCDNDomain:    envutil.String("THUMBNAIL_CDN_DOMAIN", ""),
		ThumbnailEmulatorHost: envutil.String("THUMBNAIL_GCS_EMULATOR_HOST", ""),
		GCPCredentials:        envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
		ThumbnailMaxWidth:     envutil.Int("THUMBNAIL_MAX_WIDTH", services.DefaultThumbnailMaxWidth),
		ThumbnailMaxHeight:    envutil.Int("THUMBNAIL_MAX_HEIGHT", services.DefaultThumbnailMaxHeight),

		CORSAllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		AdminUsername: envutil.String("ADMIN_USERNAME", ""),
		AdminEmail:    envutil.String("ADMIN_EMAIL", ""),
		AdminPassword: envutil.String("ADMIN_PASSWORD", ""),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "lingzee-api"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: floatEnv("OTEL_SAMPLER_RATIO", 0.1),
		},
	}

	switch cfg.DBDriver {
	case db.DriverSQLite:
		cfg.DSN = envutil.String("SQLITE_PATH", "lingzee.db")
	case db.DriverPostgres:
		cfg.DSN = envutil.String("DATABASE_URL", "")
		if cfg.DSN == "" {
			cfg.DSN = db.PostgresDSN(
				envutil.String("POSTGRES_HOST", "localhost"),
				envutil.String("POSTGRES_PORT", "5432"),
				envutil.String("POSTGRES_USER", "postgres"),
				envutil.String("POSTGRES_PASSWORD", ""),
				envutil.String("POSTGRES_NAME", "lingzee"),
			)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecretKey == "" {
		if isProduction(cfg.LogMode) {
			return Config{}, errors.New("JWT_SECRET_KEY is required in production")
		}
		log.Warn("JWT_SECRET_KEY not set; using the development secret")
		cfg.JWTSecretKey = devJWTSecret
	}
	return cfg, nil
}

func isProduction(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		return true
	}
	return false
}

func floatEnv(name string, def float64) float64 {
	v := envutil.String(name, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
