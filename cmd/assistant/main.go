// cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/database"
	"travel-assistant/internal/common/httpclient"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/composer"
	"travel-assistant/internal/gateway"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/pipeline"
	"travel-assistant/internal/prompt"
	"travel-assistant/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting travel assistant...",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Type),
	)

	// --- Semantic store ---
	store, err := openStore(cfg, log)
	if err != nil {
		zapLog.Fatal("semantic store init failed", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if count, err := store.Count(ctx); err == nil {
		zapLog.Info("Semantic store ready", zap.Int("documents", count))
		if count == 0 {
			zapLog.Warn("Semantic store is empty; run the ingest tool to load knowledge files")
		}
	}

	// --- Gateway fetchers ---
	callTimeout := time.Duration(cfg.Gateways.TimeoutMS) * time.Millisecond
	httpClient := httpclient.New(callTimeout)

	var geocodeCache gateway.GeocodeCache
	if cfg.Gateways.GeocodeCache.Enabled {
		redisClient, err := database.NewRedis(cfg.Gateways.GeocodeCache)
		if err == nil {
			err = redisClient.Ping(ctx)
		}
		if err != nil {
			zapLog.Warn("Geocode cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer redisClient.Close()
			ttl := time.Duration(cfg.Gateways.GeocodeCache.TTLHours) * time.Hour
			geocodeCache = gateway.NewRedisGeocodeCache(redisClient.Client, ttl, log)
			zapLog.Info("Geocode cache connected")
		}
	}

	weather := gateway.NewWeatherFetcher(cfg.Gateways.Weather, httpClient, geocodeCache, log)
	currency := gateway.NewCurrencyFetcher(cfg.Gateways.Currency, httpClient, log)
	amadeus := gateway.NewAmadeusClient(cfg.Gateways.Amadeus, httpClient, log)
	flights := gateway.NewFlightFetcher(amadeus, log)
	hotels := gateway.NewHotelFetcher(amadeus, log)
	if !amadeus.Configured() {
		zapLog.Warn("Flight/hotel provider credentials missing; those fetchers are disabled")
	}

	// --- Language model ---
	provider, err := llm.NewClaudeProvider(cfg.LLM, log)
	if err != nil {
		zapLog.Fatal("language model init failed", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := provider.Ping(pingCtx); err != nil {
		zapLog.Warn("Language model probe failed; answers may degrade", zap.Error(err))
	}
	cancel()
	generator := llm.NewGenerator(provider, cfg.LLM, log)

	// --- Pipeline ---
	comp := composer.New(weather, currency, flights, hotels, store, cfg.Composer, callTimeout, log)
	builder := prompt.NewBuilder(cfg.Composer.HistoryTurns)
	assistant := pipeline.NewAssistant(comp, builder, generator, log)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Interactive loop ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	questions := readQuestions(os.Stdin)
	var history []prompt.Turn

	fmt.Println("Travel assistant ready. Ask a question (Ctrl-D to quit).")
	for {
		fmt.Print("> ")
		select {
		case <-sigCh:
			zapLog.Info("Shutdown signal received")
			fmt.Println()
			return
		case query, ok := <-questions:
			if !ok {
				zapLog.Info("Input closed, shutting down")
				return
			}
			query = strings.TrimSpace(query)
			if query == "" {
				continue
			}

			answer := assistant.Answer(ctx, query, history)
			fmt.Println(answer.Text)
			fmt.Println()

			history = append(history,
				prompt.Turn{Role: "User", Text: query},
				prompt.Turn{Role: "Assistant", Text: answer.Text},
			)
			if max := cfg.Composer.HistoryTurns * 2; len(history) > max {
				history = history[len(history)-max:]
			}
		}
	}
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

func readQuestions(r *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}
