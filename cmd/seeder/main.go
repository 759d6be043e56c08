package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"launderette_near/internal/adapters/observability"
	redisad "launderette_near/internal/adapters/redis"
	"launderette_near/internal/app"
	"launderette_near/internal/shared"
	mongorepo "launderette_near/internal/storage/mongo"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.Workers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("read seed file failed")
	}
	var payloads []map[string]any
	if err := json.Unmarshal(raw, &payloads); err != nil {
		log.Fatal().Err(err).Msg("seed file is not a JSON array of objects")
	}

	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	log.Info().Msg("db ping ok")

	db := client.Database(cfg.MongoDB)
	repo := mongorepo.NewListingRepo(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("listing indexes failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for i, p := range payloads {
		i, p := i, p

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(int64(1))

			l := app.MapSeedListing(p)
			if l.Name == "" {
				log.Warn().Int("index", i).Msg("seed entry has no name, skipped")
				return
			}
			if err := repo.Create(ctx, &l); err != nil {
				log.Warn().Int("index", i).Str("name", l.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("id", l.ID).Str("name", l.Name).Msg("seed ok")
		}()
	}

	wg.Wait()

	// drop any stale collection caches so the API serves the new data
	for _, k := range []string{"listings:all"} {
		if err := cache.Del(ctx, k); err != nil {
			log.Warn().Str("key", k).Err(err).Msg("cache invalidation failed")
		}
	}
	log.Info().Int("count", len(payloads)).Msg("seeding completed")
}
