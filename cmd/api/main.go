package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/haneul-kim/date-spot-recommender/internal/config"
	httpapi "github.com/haneul-kim/date-spot-recommender/internal/http"
	"github.com/haneul-kim/date-spot-recommender/internal/recommend"
	"github.com/haneul-kim/date-spot-recommender/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	store, err := storage.OpenSQLite(cfg.Data.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.SQLitePath).Msg("open place store")
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}
	if err := seedIfEmpty(store, cfg.Data.PlacesCSV); err != nil {
		log.Fatal().Err(err).Msg("seed places")
	}

	engCfg := recommend.DefaultConfig()
	if cfg.Data.WeightsFile != "" {
		if w, err := recommend.LoadWeightOverrides(cfg.Data.WeightsFile); err != nil {
			log.Warn().Err(err).Msg("using default weights")
		} else {
			engCfg = engCfg.WithWeights(w)
		}
	}

	srv := httpapi.NewServer(recommend.NewEngine(engCfg), store)

	log.Info().Str("port", cfg.Server.Port).Msg("API listening")
	if err := srv.Routes().Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// seedIfEmpty imports the CSV catalog on first start. A missing CSV is
// fine once the store is populated.
func seedIfEmpty(store *storage.SQLiteStore, csvPath string) error {
	n, err := store.CountPlaces()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		log.Warn().Str("path", csvPath).Msg("no seed CSV, starting with empty catalog")
		return nil
	}
	places, err := storage.LoadPlacesCSV(csvPath)
	if err != nil {
		return err
	}
	if err := store.UpsertMany(places); err != nil {
		return err
	}
	log.Info().Int("count", len(places)).Msg("seeded place catalog")
	return nil
}
