package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueStockEventos = "jobs:stock_eventos"

	JobStockEvento = "stock_evento"
)

// MaxJobAttempts is how many times a job is processed before it goes to the DLQ.
const MaxJobAttempts = 3

// pollBackoff is the pause after a failed BRPOP, e.g. while Redis is down.
const pollBackoff = 2 * time.Second

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error re-queues the job until
// MaxJobAttempts is reached.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockEvento pushes a stock audit event to Redis.
func (d *Dispatcher) EnqueueStockEvento(ctx context.Context, payload StockEventoPayload) error {
	return d.enqueue(ctx, QueueStockEventos, JobStockEvento, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, queue, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines and routes
// each job to the handler registered for its type.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: map[string]Handler{}}
}

// Register binds a job type (and the queue it arrives on) to a handler.
func (p *Pool) Register(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines consuming the registered queues.
// Each goroutine blocks on BRPOP and is idle between jobs.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				if wait := backoffAfter(ctx, err); wait > 0 {
					log.Warn().Err(err).Int("worker", id).Dur("backoff", wait).Msg("dequeue failed")
					select {
					case <-ctx.Done():
					case <-time.After(wait):
					}
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

// backoffAfter is zero for an empty-queue timeout or a cancelled context and
// pollBackoff for any other dequeue error.
func backoffAfter(ctx context.Context, err error) time.Duration {
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return 0
	}
	return pollBackoff
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler registered")
		return
	}

	job.Attempts++
	if err := h(ctx, job.Payload); err != nil {
		if job.Attempts >= MaxJobAttempts {
			SendToDLQ(ctx, p.rdb, queue, job, err.Error())
			return
		}
		log.Warn().Err(err).
			Str("type", job.Type).
			Int("attempt", job.Attempts).
			Msg("job failed, re-queued")
		if err := (&Dispatcher{rdb: p.rdb}).push(ctx, queue, job); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
		}
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}
