package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingObjectStore = errors.New("S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY must be set in production environment")
	ErrMissingStripeKey   = errors.New("STRIPE_API_SECRET must be set in production environment")
)

type Config struct {
	Port            string
	Env             string
	DatabaseDSN     string
	ServerTimeout   time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	AssetRoot        string
	MaxUploadBytes   int64
	MaxRequestBytes  int64
	CatalogMaxLimit  int
	EnforceOwnership bool

	StripeSecret string
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "4000"),
		Env:             getEnv("ENV", "development"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/offerhub?parseTime=true"),
		ServerTimeout:   time.Duration(getEnvInt("SERVER_TIMEOUT", 60)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT", 10)) * time.Second,
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		AssetRoot:        getEnv("ASSET_ROOT", "offerhub"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		MaxRequestBytes:  int64(getEnvInt("MAX_REQUEST_BYTES", 64<<20)),
		CatalogMaxLimit:  getEnvInt("CATALOG_MAX_LIMIT", 100),
		EnforceOwnership: getEnvBool("ENFORCE_OWNERSHIP", false),

		StripeSecret: getEnv("STRIPE_API_SECRET", ""),
	}
}

// UseObjectStore reports whether assets go to S3 rather than the in-memory store.
func (c Config) UseObjectStore() bool {
	return c.S3Bucket != ""
}

// Validate rejects production settings that would fall back to development stand-ins.
func (c Config) Validate() error {
	if c.Env != "production" {
		return nil
	}
	if c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
		return ErrMissingObjectStore
	}
	if c.StripeSecret == "" {
		return ErrMissingStripeKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
