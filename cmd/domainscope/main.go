package main

import (
	"context"
	"os/signal"
	"syscall"

	"domainscope"
	"domainscope/pkg/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error : %v", err)
	}

	if err := domainscope.Run(ctx, cfg); err != nil {
		log.Fatalf("App error : %v", err)
	}
}
