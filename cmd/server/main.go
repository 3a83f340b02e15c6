package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ittybitycity/game/internal/app"
)

func main() {
	configPath := flag.String("config", "relay.toml", "Path to the relay config file")
	addr := flag.String("addr", "", "Listen address (overrides the config file)")
	staticDir := flag.String("static", "", "Static client directory (overrides the config file)")
	flag.Parse()

	log := app.NewLogger()

	cfg, err := app.LoadConfig(*configPath, log)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, log); err != nil {
		log.Fatalf("%v", err)
	}
}
