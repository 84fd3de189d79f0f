package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/yomisub/yomisub/internal/config"
	"github.com/yomisub/yomisub/internal/fetch"
	"github.com/yomisub/yomisub/internal/jobs"
	"github.com/yomisub/yomisub/internal/persistence"
	"github.com/yomisub/yomisub/internal/pipeline"
	"github.com/yomisub/yomisub/internal/service"
	"github.com/yomisub/yomisub/internal/translator"
	"github.com/yomisub/yomisub/pkg/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	store, err := persistence.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open store: %v", err)
	}
	defer store.Close()

	client, err := translator.NewClient(cfg.Translator)
	if err != nil {
		log.Fatal("Failed to create translator client: %v", err)
	}

	fetcher := fetch.NewYouTubeClient(cfg.Fetch)
	p := pipeline.New(client, store.BatchCache(), cfg.Translator.TargetLanguage, cfg.Pipeline.ChunkSize)
	svc := service.New(store, store, fetcher, p)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.RetentionCron, func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Worker.RetentionDays)
		removed, err := store.DeleteTerminalBefore(context.Background(), cutoff)
		if err != nil {
			log.Error("Retention sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Info("Retention sweep removed %d terminal jobs", removed)
		}
	}); err != nil {
		log.Fatal("Invalid retention schedule %q: %v", cfg.Worker.RetentionCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	worker := jobs.NewWorker(store, svc.ProcessJob, cfg.Worker.PollInterval)
	worker.Run(ctx)
}
