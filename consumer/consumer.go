// Package consumer implements the periodic job puller: it ticks against
// the Gateway's HTTP API, leases jobs, executes them by type, and reports
// completion or failure back.
package consumer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/quaylabs/jobqueue/consumer/internal/lifecycle"
	"github.com/quaylabs/jobqueue/job"
)

// Config configures a Consumer.
type Config struct {
	GatewayBaseURL string
	Token          string
	MaxJobsPerTick int
	TickInterval   time.Duration
	CrawlTimeout   time.Duration
	// RequestsPerSecond throttles crawl execution against arbitrary
	// external targets so one misbehaving job type can't monopolize
	// outbound bandwidth.
	RequestsPerSecond int
}

// Consumer pulls jobs from the Gateway on a fixed interval and executes
// them concurrently, bounded by MaxJobsPerTick per tick.
type Consumer struct {
	gateway *gatewayClient
	http    *http.Client
	limiter *rate.Limiter
	pool    *lifecycle.WorkerPool[*jobView]
	tick    lifecycle.TimerTask
	cfg     Config
	log     *slog.Logger
}

// New creates a Consumer. Call Start to begin polling.
func New(cfg Config, log *slog.Logger) *Consumer {
	httpClient := &http.Client{Timeout: cfg.CrawlTimeout + 5*time.Second}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Consumer{
		gateway: newGatewayClient(cfg.GatewayBaseURL, cfg.Token, httpClient),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		pool:    lifecycle.NewWorkerPool[*jobView](cfg.MaxJobsPerTick, cfg.MaxJobsPerTick, log),
		cfg:     cfg,
		log:     log,
	}
}

// Start begins the tick loop. It must only be called once.
func (c *Consumer) Start(ctx context.Context) {
	c.pool.Start(ctx, c.handle)
	c.tick.Start(ctx, c.onTick, c.cfg.TickInterval)
}

// Stop signals shutdown and returns a channel closed once every in-flight
// job handler has returned.
func (c *Consumer) Stop() lifecycle.DoneChan {
	tickDone := c.tick.Stop()
	poolDone := c.pool.Stop()
	return lifecycle.Combine(tickDone, poolDone)
}

func (c *Consumer) onTick(ctx context.Context) {
	for i := 0; i < c.cfg.MaxJobsPerTick; i++ {
		j, err := c.gateway.dequeue(ctx)
		if err != nil {
			c.log.Error("dequeue failed", "err", err)
			return
		}
		if j == nil {
			return
		}
		if !c.pool.Push(j) {
			return
		}
	}
}

func (c *Consumer) handle(ctx context.Context, j *jobView) {
	if err := c.limiter.Wait(ctx); err != nil {
		return
	}

	var res execResult
	switch job.Type(j.Type) {
	case job.Crawl:
		res = executeCrawl(ctx, c.http, j.Target, c.cfg.CrawlTimeout)
	case job.Rank:
		res = executeRank(ctx)
	default:
		res = execResult{err: errUnknownType(j.Type)}
	}

	if res.err != nil {
		c.log.Info("job failed", "id", j.Id, "type", j.Type, "err", res.err)
		if err := c.gateway.fail(ctx, j.Id, res.err.Error()); err != nil {
			c.log.Error("fail report failed", "id", j.Id, "err", err)
		}
		return
	}

	if err := c.gateway.complete(ctx, j.Id, res.result); err != nil {
		c.log.Error("complete report failed", "id", j.Id, "err", err)
	}
}
