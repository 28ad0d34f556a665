// Package worker runs snapshot reloads off the request path.
// Reload requests from the API, the interval ticker and Redis pub/sub share one
// bounded queue drained by a single worker:
// - Requests that arrive while a reload is pending are coalesced into it
// - A full queue sheds the request instead of blocking the caller
// - Successful reloads are announced on Redis when a client is configured
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// Redis keys
const (
	TriggerChannel = "forecast:reload"
	EventsChannel  = "forecast:reload:events"
	SnapshotKey    = "forecast:snapshot"
)

// Prometheus metrics
var (
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_reloads_total",
		Help: "Snapshot reloads by result",
	}, []string{"result"})

	reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_reload_duration_seconds",
		Help:    "Duration of snapshot reloads",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	reloadsShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_reloads_shed_total",
		Help: "Reload requests dropped because the queue was full",
	})

	reloadsCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_reloads_coalesced_total",
		Help: "Reload requests folded into an already queued reload",
	})

	reloadQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_reload_queue_depth",
		Help: "Current depth of the reload queue",
	})

	snapshotPlays = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_snapshot_plays",
		Help: "Number of plays in the snapshot in service",
	})
)

// Reloadable is implemented by logic.Store.
type Reloadable interface {
	Reload(ctx context.Context) (models.SnapshotInfo, error)
}

// Notifier is the subset of *redis.Client used to announce reloads.
type Notifier interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Request is one queued reload.
type Request struct {
	ID          string
	Reason      string
	RequestedAt time.Time
}

// ReloadEvent is published on EventsChannel after every successful reload.
type ReloadEvent struct {
	RequestIDs []string            `json:"request_ids"`
	Reasons    []string            `json:"reasons"`
	Snapshot   models.SnapshotInfo `json:"snapshot"`
	Duration   float64             `json:"duration_seconds"`
}

// ReloaderConfig configures the reloader
type ReloaderConfig struct {
	Store     Reloadable
	QueueSize int
	Interval  time.Duration
	Timeout   time.Duration
	Notifier  Notifier
	Logger    *zap.Logger
}

// Reloader serializes snapshot reloads
type Reloader struct {
	config ReloaderConfig
	queue  chan Request
	wg     sync.WaitGroup
	cancel context.CancelFunc
	logger *zap.SugaredLogger
}

// NewReloader creates a reloader. Call Start before enqueueing work that must run.
func NewReloader(cfg ReloaderConfig) *Reloader {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reloader{
		config: cfg,
		queue:  make(chan Request, cfg.QueueSize),
		logger: logger.Sugar(),
	}
}

// Start launches the reload worker and, when an interval is set, the ticker.
func (r *Reloader) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.worker(ctx)

	if r.config.Interval > 0 {
		r.wg.Add(1)
		go r.tick(ctx)
	}

	r.logger.Infow("Reloader started",
		"queueSize", r.config.QueueSize,
		"interval", r.config.Interval,
		"notify", r.config.Notifier != nil,
	)
}

// Stop cancels pending work and waits for the worker to exit.
func (r *Reloader) Stop() {
	if r.cancel == nil {
		return
	}
	r.logger.Info("Stopping reloader...")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("Reloader stopped")
}

// Enqueue queues a reload and returns its request ID. It never blocks; the
// second return is false when the queue is full.
func (r *Reloader) Enqueue(reason string) (string, bool) {
	req := Request{
		ID:          uuid.NewString(),
		Reason:      reason,
		RequestedAt: time.Now(),
	}

	select {
	case r.queue <- req:
		reloadQueueDepth.Set(float64(len(r.queue)))
		return req.ID, true
	default:
		reloadsShed.Inc()
		r.logger.Warnw("Reload queue full, dropping request", "reason", reason)
		return req.ID, false
	}
}

// QueueDepth returns current queue size
func (r *Reloader) QueueDepth() int {
	return len(r.queue)
}

func (r *Reloader) tick(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Enqueue("interval")
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reloader) worker(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case req := <-r.queue:
			batch := append([]Request{req}, r.drain()...)
			reloadQueueDepth.Set(float64(len(r.queue)))
			if len(batch) > 1 {
				reloadsCoalesced.Add(float64(len(batch) - 1))
			}
			r.reload(ctx, batch)

		case <-ctx.Done():
			return
		}
	}
}

// drain empties whatever is already queued without waiting.
func (r *Reloader) drain() []Request {
	var pending []Request
	for {
		select {
		case req := <-r.queue:
			pending = append(pending, req)
		default:
			return pending
		}
	}
}

func (r *Reloader) reload(ctx context.Context, batch []Request) {
	ids := make([]string, len(batch))
	reasons := make([]string, len(batch))
	for i, req := range batch {
		ids[i] = req.ID
		reasons[i] = req.Reason
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	info, err := r.config.Store.Reload(ctx)
	elapsed := time.Since(start)
	reloadDuration.Observe(elapsed.Seconds())

	if err != nil {
		reloadsTotal.WithLabelValues("failure").Inc()
		r.logger.Errorw("Snapshot reload failed",
			"requests", ids,
			"reasons", reasons,
			"error", err,
		)
		return
	}

	reloadsTotal.WithLabelValues("success").Inc()
	snapshotPlays.Set(float64(info.Plays))
	r.logger.Infow("Snapshot reloaded",
		"requests", ids,
		"reasons", reasons,
		"version", info.Version,
		"plays", info.Plays,
		"duration", elapsed,
	)

	r.announce(ctx, ReloadEvent{
		RequestIDs: ids,
		Reasons:    reasons,
		Snapshot:   info,
		Duration:   elapsed.Seconds(),
	})
}

func (r *Reloader) announce(ctx context.Context, event ReloadEvent) {
	if r.config.Notifier == nil {
		return
	}

	info := event.Snapshot
	if err := r.config.Notifier.HSet(ctx, SnapshotKey,
		"version", info.Version,
		"source", info.Source,
		"plays", info.Plays,
		"players", info.Players,
		"teams", info.Teams,
		"loaded_at", info.LoadedAt.Format(time.RFC3339),
	).Err(); err != nil {
		r.logger.Warnw("Failed to store snapshot metadata", "error", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Warnw("Failed to encode reload event", "error", err)
		return
	}
	if err := r.config.Notifier.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		r.logger.Warnw("Failed to publish reload event", "error", err)
	}
}

// Listen enqueues a reload for every message on TriggerChannel until ctx ends.
// The message payload is recorded as the reason.
func (r *Reloader) Listen(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.Subscribe(ctx, TriggerChannel)
	defer pubsub.Close()

	r.logger.Infow("Listening for reload triggers", "channel", TriggerChannel)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.Enqueue(triggerReason(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func triggerReason(payload string) string {
	if payload == "" {
		return "redis"
	}
	if len(payload) > 64 {
		payload = payload[:64]
	}
	return "redis:" + payload
}
