package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"campusnest/internal/adapters/files"
	server "campusnest/internal/adapters/http_server"
	"campusnest/internal/adapters/observability"
	redisad "campusnest/internal/adapters/redis"
	"campusnest/internal/app"
	"campusnest/internal/shared"
	mysqlrepo "campusnest/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("database ready")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store := files.NewDisk(cfg.MediaDir, cfg.MediaBaseURL)

	handlers := &server.Handlers{
		Auth:       app.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL),
		Profile:    app.NewProfileService(repo),
		Users:      app.NewUserService(repo),
		Listings:   app.NewListingService(repo, cache, cfg.CacheTTL),
		Reviews:    app.NewReviewService(repo, repo, cache),
		Bookmarks:  app.NewBookmarkService(repo, repo),
		Uploads:    app.NewUploadService(store),
		LoginRPS:   cfg.LoginRPS,
		LoginBurst: cfg.LoginBurst,
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
