package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	JWTSecret string
	TokenTTL  time.Duration

	CacheTTL time.Duration

	ImportWorkers int
	ImportAdminID int64

	MediaDir     string
	MediaBaseURL string

	LoginRPS   float64
	LoginBurst int
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
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		// clientFoundRows makes no-op updates count as matched rows;
		// multiStatements is needed by the migration files.
		MySQLDSN: env("MYSQL_DSN",
			"root:root@tcp(localhost:3306)/campusnest?parseTime=true&multiStatements=true&clientFoundRows=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),

		JWTSecret: env("JWT_SECRET", ""),
		TokenTTL:  time.Duration(atoi("TOKEN_TTL_MINUTES", 24*60)) * time.Minute,

		CacheTTL: time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		ImportWorkers: atoi("IMPORT_WORKERS", 8),
		ImportAdminID: int64(atoi("IMPORT_ADMIN_ID", 1)),

		MediaDir:     env("MEDIA_DIR", "./media"),
		MediaBaseURL: env("MEDIA_BASE_URL", "/media"),

		LoginRPS:   float64(atoi("LOGIN_RATE_PER_MIN", 30)) / 60.0,
		LoginBurst: atoi("LOGIN_BURST", 5),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an insecure default")
		c.JWTSecret = "insecure-dev-secret"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
