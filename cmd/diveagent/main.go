package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/internal/dashboard"
	"github.com/kfk18/ScubaInstructionAgent/internal/forecast"
	"github.com/kfk18/ScubaInstructionAgent/internal/marinelife"
	"github.com/kfk18/ScubaInstructionAgent/internal/spots"
	"github.com/kfk18/ScubaInstructionAgent/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	registry, err := spots.Load(cfg.Spots.File)
	if err != nil {
		log.Fatalf("Failed to load spot registry: %v", err)
	}
	log.Printf("Loaded %d diving spots from %s", len(registry.Names()), cfg.Spots.File)

	fetcher := forecast.NewClient(&cfg.Forecast)

	summarizer, err := marinelife.NewSummarizer(cfg, marinelife.NewSearchClient(&cfg.Search))
	if err != nil {
		log.Fatalf("Failed to create summarizer: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: dashboard.NewServer(registry, fetcher, summarizer).Router(),
	}

	go func() {
		log.Printf("Dashboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
