package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"textdigest/internal/config"
	"textdigest/internal/transport/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	// Setup routes
	router := srv.SetupRoutes()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schedule periodic cache sweeps
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SweepSchedule, func() {
		removed, err := srv.SweepCache(ctx)
		if err != nil {
			log.Printf("Cache sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Cache sweep removed %d expired entries", removed)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule cache sweep (%q): %v", cfg.SweepSchedule, err)
	}
	scheduler.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		log.Printf("Starting server on %s:%s (provider: %s, cache: %s)", cfg.Host, cfg.Port, cfg.Provider, cfg.CacheType)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down server...")

	// Stop background sweeps
	cancel()
	<-scheduler.Stop().Done()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
