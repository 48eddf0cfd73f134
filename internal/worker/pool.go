package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"tradebook/internal/infra"
	"tradebook/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueOrders = "jobs:orders"

	maxAttempts = 3
)

// Job is the envelope pushed to Redis for every order event.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Book     string          `json:"book"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job. A returned error schedules a retry until
// maxAttempts is reached, after which the job goes to the dead letter queue.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// Dispatcher enqueues order events into a Redis list. The worker pool
// dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	cb  *infra.CircuitBreaker
}

func NewDispatcher(rdb *redis.Client, cb *infra.CircuitBreaker) *Dispatcher {
	return &Dispatcher{rdb: rdb, cb: cb}
}

// ForBook returns the event sink a book session publishes to.
func (d *Dispatcher) ForBook(book string) service.OrderEvents {
	return bookEvents{d: d, book: book}
}

type bookEvents struct {
	d    *Dispatcher
	book string
}

func (b bookEvents) Publish(ctx context.Context, ev service.OrderEvent) error {
	return b.d.Enqueue(ctx, string(ev.Type), b.book, ev)
}

// Enqueue wraps payload in a Job and pushes it to QueueOrders.
func (d *Dispatcher) Enqueue(ctx context.Context, jobType, book string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, Job{ID: uuid.NewString(), Type: jobType, Book: book, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.cb.Execute(func() error {
		return d.rdb.LPush(ctx, QueueOrders, encoded).Err()
	})
}

// StartWorkerPool launches numWorkers goroutines consuming QueueOrders.
// The returned WaitGroup is done once every worker has seen ctx cancelled.
func StartWorkerPool(ctx context.Context, d *Dispatcher, numWorkers int, h Handler) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, d, h, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

func runWorker(ctx context.Context, d *Dispatcher, h Handler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := d.rdb.BRPop(ctx, 5*time.Second, QueueOrders).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: pop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, d, h, result[1])
		}
	}
}

func processJob(ctx context.Context, d *Dispatcher, h Handler, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("queue", QueueOrders).Msg("failed to unmarshal job")
		SendToDLQ(ctx, d.rdb, QueueOrders, Job{Type: "unknown", Payload: json.RawMessage(raw)}, err.Error())
		return
	}

	err := h.Handle(ctx, job)
	switch retry := nextAttempt(&job, err); {
	case err == nil:
		log.Debug().Str("job_id", job.ID).Str("type", job.Type).Msg("job done")
	case retry:
		log.Warn().Err(err).Str("job_id", job.ID).Int("attempt", job.Attempts).Msg("job failed, retrying")
		if perr := d.push(ctx, job); perr != nil {
			SendToDLQ(ctx, d.rdb, QueueOrders, job, perr.Error())
		}
	default:
		SendToDLQ(ctx, d.rdb, QueueOrders, job, err.Error())
	}
}

// nextAttempt records a failed attempt and reports whether the job should
// be retried.
func nextAttempt(job *Job, err error) bool {
	if err == nil {
		return false
	}
	job.Attempts++
	return job.Attempts < maxAttempts
}
