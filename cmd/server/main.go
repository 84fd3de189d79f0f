package main

import (
	"github.com/joho/godotenv"

	"github.com/yomisub/yomisub/internal/config"
	"github.com/yomisub/yomisub/internal/fetch"
	"github.com/yomisub/yomisub/internal/httpapi"
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

	server := httpapi.NewServer(svc, store)
	log.Info("API server listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(cfg.HTTPAddr); err != nil {
		log.Fatal("Server stopped: %v", err)
	}
}
