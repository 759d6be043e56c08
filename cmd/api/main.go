package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "launderette_near/internal/adapters/http_server"
	"launderette_near/internal/adapters/nominatim"
	"launderette_near/internal/adapters/observability"
	redisad "launderette_near/internal/adapters/redis"
	"launderette_near/internal/app"
	"launderette_near/internal/shared"
	mongorepo "launderette_near/internal/storage/mongo"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	log.Info().Msg("database connection ok")

	db := client.Database(cfg.MongoDB)
	listings := mongorepo.NewListingRepo(db)
	reviews := mongorepo.NewReviewRepo(db)
	corrections := mongorepo.NewCorrectionRepo(db)
	faqs := mongorepo.NewFaqRepo(db)
	analytics := mongorepo.NewAnalyticsRepo(db)

	if err := listings.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("listing indexes failed")
	}
	if err := reviews.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("review indexes failed")
	}
	if err := corrections.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("correction indexes failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(listings, reviews, faqs, cache, cfg.CacheTTL)
	admin := app.NewAdminService(listings, reviews, corrections, faqs, analytics, cache)

	geo, err := nominatim.New(cfg.NominatimBase, cfg.ContactEmail, cfg.NominatimRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Nominatim client")
	}

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:         q,
		Admin:     admin,
		Geocoder:  geo,
		JWTSecret: cfg.JWTSecret,
		BaseURL:   cfg.PublicBaseURL,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
