package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ittybitycity/game/internal/app"
	"ittybitycity/game/internal/client"
)

func main() {
	configPath := flag.String("config", "client.toml", "Path to the client config file")
	serverURL := flag.String("server", "", "Relay base URL (overrides the config file)")
	levelName := flag.String("level", "", "Level name to fetch (overrides the config file)")
	wander := flag.Bool("wander", false, "Enable the roaming walker input")
	wanderSeed := flag.Int64("seed", 0, "Roaming pattern seed (overrides the config file)")
	flag.Parse()

	log := app.NewLogger()

	cfg, err := client.LoadConfig(*configPath, log)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *levelName != "" {
		cfg.LevelName = *levelName
	}
	if *wander {
		cfg.Wander = true
	}
	if *wanderSeed != 0 {
		cfg.WanderSeed = *wanderSeed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("game client targeting %s", cfg.ServerURL)
	if err := client.New(cfg, log).Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
