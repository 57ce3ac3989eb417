// Command server runs a paratree Container[string, string] behind the
// HTTP admin surface in internal/httpapi. paratree is a single
// in-process container, not a distributed database, so there is no
// cluster membership or consensus bootstrap here.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"paratree/internal/httpapi"
	"paratree/pkg/paratree"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := initConfig(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(&cfg)

	strategy, err := paratree.ParseStrategy(cfg.Container.RoutingStrategy)
	if err != nil {
		slog.Error("invalid routing strategy", "error", err)
		os.Exit(1)
	}

	container, err := paratree.New[string, string](paratree.Config{
		NumShards:               cfg.Container.NumShards,
		Strategy:                strategy,
		VirtualNodesPerShard:    cfg.Container.VirtualNodesPerShard,
		HotspotFactor:           cfg.Container.HotspotFactor,
		HotspotMinAbs:           cfg.Container.HotspotMinAbs,
		MaxConsecutiveRedirects: cfg.Container.MaxConsecutiveRedirects,
		RedirectCooldown:        cfg.Container.RedirectCooldown,
		RefreshPeriod:           cfg.Container.RefreshPeriod,
	})
	if err != nil {
		slog.Error("failed to construct container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	server := httpapi.NewServer(container, cfg.HTTP.Port)
	server.Start()

	slog.Info("paratree server running", "addr", server.URL)
	fmt.Println("Press Ctrl+C to stop...")

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		slog.Error("error stopping server", "error", err)
	}
	slog.Info("paratree server stopped")
}
