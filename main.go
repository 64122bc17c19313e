package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/docker/client"

	"dockhand/api"
	"dockhand/config"
	"dockhand/manager"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// One shared engine client for every component.
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Fatalf("Failed to create docker client: %v", err)
	}

	containerManager := manager.NewContainerManager(cli)
	containerManager.SetStopTimeout(time.Duration(cfg.StopTimeout) * time.Second)
	containerManager.SetPolling(time.Duration(cfg.DeletePollInterval)*time.Second, cfg.DeletePollBudget)

	runner := manager.NewRunner(cli)
	runner.SetKeepAlive(time.Duration(cfg.RunnerKeepAlive) * time.Second)

	server := api.NewServer(containerManager, runner)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Dockhand server starting on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server ListenAndServe error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server failed to shutdown gracefully: %v", err)
	} else {
		log.Println("Server shutdown complete.")
	}
}
