package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/triviahq/gameshow-system/internal/api/metrics"
	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// AttemptRecorder is the subset of the game service the dispatcher drives;
// satisfied by *service.GameService.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, input ports.RecordAttemptInput) (*domain.Attempt, error)
}

// Dispatcher routes bulk-ingested attempts to a fixed set of workers using
// consistent hashing on the season id, so attempts for one season are
// recorded in arrival order.
type Dispatcher struct {
	workers []chan ports.RecordAttemptInput
	record  AttemptRecorder
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, record AttemptRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RecordAttemptInput, numWorkers),
		record:  record,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RecordAttemptInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an attempt to the worker responsible for its season.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(input ports.RecordAttemptInput) {
	idx := d.shardIndex(input.SeasonID)
	d.workers[idx] <- input
	metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple attempts preserving per-season ordering.
func (d *Dispatcher) EnqueueBatch(inputs []ports.RecordAttemptInput) {
	for _, in := range inputs {
		d.Enqueue(in)
	}
}

// shardIndex maps a season id deterministically to a worker index.
func (d *Dispatcher) shardIndex(seasonID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seasonID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RecordAttemptInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			start := time.Now()
			_, err := d.record.RecordAttempt(ctx, input)
			outcome := "correct"
			if !input.Correct {
				outcome = "incorrect"
			}
			if err != nil {
				outcome = "error"
				d.log.Error().Err(err).
					Str("season_id", input.SeasonID).
					Str("contestant", input.ContestantName).
					Int("worker_id", id).
					Msg("attempt recording failed")
			}
			metrics.AttemptProcessingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		}
	}
}
