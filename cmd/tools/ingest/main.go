// cmd/tools/ingest/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/database"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/ingest"
	"travel-assistant/internal/vectorstore"
)

func main() {
	dir := flag.String("dir", "data/knowledge", "Directory of .txt knowledge files to ingest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	store, err := openStore(cfg, log)
	if err != nil {
		zapLog.Fatal("semantic store init failed", zap.Error(err))
	}
	defer store.Close()

	ingester := ingest.New(store, cfg.Ingest, log)
	total, err := ingester.IngestDir(context.Background(), *dir)
	if err != nil {
		zapLog.Fatal("ingestion failed", zap.String("dir", *dir), zap.Error(err))
	}

	fmt.Printf("Ingested %d chunks from %s into %s store\n", total, *dir, cfg.Store.Type)
}

func openStore(cfg *config.Config, log logger.Logger) (vectorstore.Store, error) {
	switch cfg.Store.Type {
	case "elasticsearch":
		esClient, err := database.NewElasticsearch(cfg.Store.Elasticsearch)
		if err != nil {
			return nil, err
		}
		if err := esClient.Ping(); err != nil {
			return nil, err
		}
		return vectorstore.NewElasticStore(cfg.Store.Elasticsearch, esClient.Client, log), nil
	default:
		return vectorstore.NewBadgerStore(cfg.Store.Badger, log)
	}
}
