package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	ServiceName string

	ServerPort int

	// DataDir holds every persistent artifact: the two collection files and,
	// with the redis backend disabled, nothing else.
	DataDir       string
	UserDBPath    string
	ProductDBPath string

	// StaticDir is served under /static; uploads land in UploadDir below it.
	StaticDir       string
	UploadDir       string
	UploadPublicURL string

	RegistrationSecret string

	SessionTTL     time.Duration
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	KafkaBrokers []string

	LogLevel string
}

func Load() Config {
	dataDir := EnvDefault("DATA_DIR", ".")
	staticDir := EnvDefault("STATIC_DIR", "static")

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog-backend"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DataDir:       dataDir,
		UserDBPath:    filepath.Join(dataDir, EnvDefault("USER_DB_FILE", "user.json")),
		ProductDBPath: filepath.Join(dataDir, EnvDefault("PRODUCT_DB_FILE", "products.json")),

		StaticDir:       staticDir,
		UploadDir:       filepath.Join(staticDir, "uploads"),
		UploadPublicURL: "/static/uploads",

		RegistrationSecret: EnvDefault("REGISTRATION_SECRET", "root"),

		SessionTTL:     EnvDurationDefault("SESSION_TTL", 30*time.Minute),
		SessionBackend: EnvDefault("SESSION_BACKEND", SessionBackendMemory),
		RedisAddr:      EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        EnvIntDefault("REDIS_DB", 0),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
