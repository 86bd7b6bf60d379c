// Command consumer runs the Durable Job Queue's Consumer: it polls the
// Gateway for leased jobs and executes them by type.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quaylabs/jobqueue/config"
	"github.com/quaylabs/jobqueue/consumer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.LoadConsumer()

	if cfg.Token == "" {
		log.Error("INTERNAL_API_TOKEN must be set")
		os.Exit(1)
	}

	tickInterval, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		log.Error("invalid CONSUMER_TICK_INTERVAL", "err", err)
		os.Exit(1)
	}
	crawlTimeout, err := time.ParseDuration(cfg.CrawlTimeout)
	if err != nil {
		log.Error("invalid CONSUMER_CRAWL_TIMEOUT", "err", err)
		os.Exit(1)
	}

	c := consumer.New(consumer.Config{
		GatewayBaseURL: cfg.GatewayBaseURL,
		Token:          cfg.Token,
		MaxJobsPerTick: cfg.MaxJobsPerTick,
		TickInterval:   tickInterval,
		CrawlTimeout:   crawlTimeout,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("consumer starting", "gateway", cfg.GatewayBaseURL, "env", cfg.Environment)
	c.Start(ctx)

	<-ctx.Done()
	log.Info("consumer shutting down")
	<-c.Stop()
}
