package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	NominatimBase string
	ContactEmail  string
	NominatimRPS  int
	PublicBaseURL string
	SeedFile      string
	Workers       int
	CacheTTL      time.Duration
}

func Load() Config {
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
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       env("MONGO_DB", "launderette"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		JWTSecret:     env("JWT_SECRET", ""),
		NominatimBase: env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		ContactEmail:  env("CONTACT_EMAIL", ""),
		NominatimRPS:  atoi("NOMINATIM_RPS", 1),
		PublicBaseURL: env("PUBLIC_BASE_URL", "https://launderettenear.me"),
		SeedFile:      env("SEED_FILE", "seed/listings.json"),
		Workers:       atoi("SEED_WORKERS", 8),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, admin routes will reject every token")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
