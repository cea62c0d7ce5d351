package main

import (
	"context"
	"fmt"
	"loopy/internal/adapters/mongodb"
	"loopy/internal/analysis"
	"loopy/internal/config"
	"loopy/internal/domain"
	"loopy/internal/seed"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

var windows = []struct {
	name   string
	length time.Duration
}{
	{"24h", 24 * time.Hour},
	{"week", 7 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
}

func main() {
	ctx := context.Background()
	logger, _ := zap.NewProduction()
	log := logger.Sugar()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	mongoDB, err := mongodb.NewMongoDB(ctx, cfg.Mongo.ConnectionURI(), cfg.Mongo.Database)
	if err != nil {
		log.Fatalw("failed to connect to MongoDB", "error", err)
	}
	defer mongoDB.Disconnect(ctx)

	readingRepo := mongodb.NewReadingRepository(mongoDB, cfg.Mongo.Collection, time.Minute)
	rng := rand.New(rand.NewSource(42))

	fmt.Println("days\tno\twindow\tfetch\t\tanalyze")

	for _, days := range []int{1, 7, 30, 90} {
		err = mongodb.ResetCollection(ctx, mongoDB.Database, cfg.Mongo.Collection)
		if err != nil {
			log.Fatalw("failed to set up collection", "error", err)
		}

		scenario := seed.DefaultScenario()
		scenario.Days = days
		end := time.Now().UTC()

		noOfReadings, err := seed.Insert(ctx, mongoDB.Database, cfg.Mongo.Collection, seed.Generate(scenario, end, rng))
		if err != nil {
			log.Fatalw("failed to insert readings", "error", err)
		}

		for _, w := range windows {
			window := domain.WindowEndingAt(end.Add(time.Second), w.length)

			startTime := time.Now()
			readings, err := readingRepo.FetchWindow(ctx, window.Start, window.End)
			fetchTime := time.Since(startTime)
			if err != nil {
				log.Fatalw("failed to fetch readings", "error", err)
			}

			startTime = time.Now()
			analysis.Analyze(readings)
			analyzeTime := time.Since(startTime)

			fmt.Printf("%d\t%d\t%s\t%s\t%s\n", days, noOfReadings, w.name, fetchTime, analyzeTime)
		}
	}
}
