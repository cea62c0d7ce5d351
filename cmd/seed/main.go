package main

import (
	"context"
	"flag"
	"loopy/internal/adapters/mongodb"
	"loopy/internal/config"
	"loopy/internal/logging"
	"loopy/internal/seed"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

func main() {
	scenarioPath := flag.String("f", "", "YAML scenario file (defaults to a built-in week)")
	days := flag.Int("days", 0, "override the scenario's number of days")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to build logger", zap.Error(err))
	}
	log := logger.Sugar()

	scenario := seed.DefaultScenario()
	if *scenarioPath != "" {
		scenario, err = seed.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatalw("invalid scenario", "file", *scenarioPath, "error", err)
		}
	}
	if *days > 0 {
		scenario.Days = *days
	}

	mongoDB, err := mongodb.NewMongoDB(ctx, cfg.Mongo.ConnectionURI(), cfg.Mongo.Database)
	if err != nil {
		log.Fatalw("failed to connect to MongoDB", "error", err)
	}
	defer mongoDB.Disconnect(ctx)

	err = mongodb.ResetCollection(ctx, mongoDB.Database, cfg.Mongo.Collection)
	if err != nil {
		log.Fatalw("failed to set up collection", "error", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	readings := seed.Generate(scenario, time.Now(), rng)

	inserted, err := seed.Insert(ctx, mongoDB.Database, cfg.Mongo.Collection, readings)
	if err != nil {
		log.Fatalw("failed to insert readings", "inserted", inserted, "error", err)
	}

	log.Infof("Seeded %d readings over %d days into %s.%s", inserted, scenario.Days, cfg.Mongo.Database, cfg.Mongo.Collection)
}
