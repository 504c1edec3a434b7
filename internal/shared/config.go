package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	CatalogBase   string
	ClassifierURL string
	CatalogRPS    int
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	MySQLDSN      string
	PageLimit     int
	Workers       int
	CacheTTL      time.Duration
	CallTimeout   time.Duration
}

func Load() Config {
	// optional .env for local development; real deployments use the environment
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		CatalogBase:   env("CATALOG_BASE_URL", "http://localhost:8000/api/v1"),
		ClassifierURL: env("CLASSIFIER_URL", "http://localhost:5000/api/v1/predict"),
		CatalogRPS:    atoi("CATALOG_RPS", 5),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tourai?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		PageLimit:     atoi("PAGE_LIMIT", 8),
		Workers:       atoi("SNAPSHOT_WORKERS", 8),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		CallTimeout:   time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if c.CatalogBase == "" {
		log.Warn().Msg("CATALOG_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
