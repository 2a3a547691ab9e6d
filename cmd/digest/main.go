package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"github.com/haneul-kim/date-spot-recommender/internal/config"
	"github.com/haneul-kim/date-spot-recommender/internal/digest"
	"github.com/haneul-kim/date-spot-recommender/internal/recommend"
	"github.com/haneul-kim/date-spot-recommender/internal/weather"
)

func main() {
	schedule := flag.String("schedule", "", "cron expression; when set, run repeatedly instead of once (e.g. \"0 7 * * *\")")
	offline := flag.Bool("offline", false, "skip the forecast fetch and use the saved weather file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	engCfg := recommend.DefaultConfig()
	if cfg.Data.WeightsFile != "" {
		if w, err := recommend.LoadWeightOverrides(cfg.Data.WeightsFile); err != nil {
			log.Warn().Err(err).Msg("using default weights")
		} else {
			engCfg = engCfg.WithWeights(w)
		}
	}

	builder := &digest.Builder{
		Engine:      recommend.NewEngine(engCfg),
		PlacesCSV:   cfg.Data.PlacesCSV,
		ProfilesCSV: cfg.Data.ProfilesCSV,
		UserID:      cfg.Digest.UserID,
		WeatherFile: cfg.Data.WeatherFile,
		OutputPath:  cfg.Digest.OutputPath,
		TopN:        cfg.Digest.TopN,
	}
	if !*offline {
		builder.Fetcher = weather.NewClient(cfg.Weather.Latitude, cfg.Weather.Longitude, cfg.Weather.Timezone)
	}

	if *schedule == "" {
		if err := builder.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("digest run failed")
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, func() {
		if err := builder.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("scheduled digest run failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", *schedule).Msg("invalid cron expression")
	}

	log.Info().Str("schedule", *schedule).Msg("digest scheduler started")
	c.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
	log.Info().Msg("digest scheduler stopped")
}
