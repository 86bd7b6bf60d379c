// Command gateway runs the Durable Job Queue's Gateway: the authenticated
// HTTP API through which producers enqueue jobs and consumers lease,
// complete, and fail them.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/quaylabs/jobqueue/config"
	"github.com/quaylabs/jobqueue/gatewaysvc"
	"github.com/quaylabs/jobqueue/httpapi"
	"github.com/quaylabs/jobqueue/queue"
	"github.com/quaylabs/jobqueue/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.LoadGateway()

	if cfg.Token == "" {
		log.Error("INTERNAL_API_TOKEN must be set")
		os.Exit(1)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		log.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())

	ctx := context.Background()
	clock := queue.RealClock{}
	store.MustMigrate(ctx, db, clock)

	engine := store.NewEngine(db, clock)
	inspector := store.NewInspector(db)
	adapter := httpapi.NewAdapter(engine, inspector, clock, log)

	srv := gatewaysvc.New(adapter, gatewaysvc.Config{
		Token:       cfg.Token,
		Environment: cfg.Environment,
	}, log)

	log.Info("gateway listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}
