package notify

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("notification_queue_full")

type QueueConfig struct {
	Size        int
	Workers     int
	MaxAttempts int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
}

func (c *QueueConfig) defaults() {
	if c.Size <= 0 {
		c.Size = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
}

// Queue is the in-process notification queue: a buffered channel drained by
// a fixed worker pool with bounded retry.
type Queue struct {
	cfg     QueueConfig
	handler Handler
	jobs    chan Event
	wg      sync.WaitGroup
}

func NewQueue(h Handler, cfg QueueConfig) *Queue {
	cfg.defaults()
	return &Queue{cfg: cfg, handler: h, jobs: make(chan Event, cfg.Size)}
}

// Publish never blocks; a full buffer is reported to the caller.
func (q *Queue) Publish(ctx context.Context, ev Event) error {
	select {
	case q.jobs <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has returned. Jobs still buffered at shutdown are drained with one attempt each.
func (q *Queue) Run(ctx context.Context) {
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case ev := <-q.jobs:
			q.process(ctx, ev)
		}
	}
}

func (q *Queue) process(ctx context.Context, ev Event) {
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		err := q.handler.Handle(ctx, ev)
		if err == nil {
			return
		}
		log.Printf("[notify] %s id=%s attempt %d/%d failed: %v", ev.Kind, ev.ID, attempt, q.cfg.MaxAttempts, err)
		if attempt == q.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			log.Printf("⚠️  [notify] shutdown during retry; %s id=%s dropped", ev.Kind, ev.ID)
			return
		case <-time.After(q.cfg.Backoff * time.Duration(attempt)):
		}
	}
	log.Printf("❌ [notify] giving up on %s id=%s room=%s", ev.Kind, ev.ID, ev.RoomID)
}

func (q *Queue) drain() {
	for {
		select {
		case ev := <-q.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := q.handler.Handle(ctx, ev); err != nil {
				log.Printf("❌ [notify] %s id=%s failed during shutdown: %v", ev.Kind, ev.ID, err)
			}
			cancel()
		default:
			return
		}
	}
}
