package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

type captureRecorder struct {
	mu       sync.Mutex
	bySeason map[string][]string
	calls    int
	target   int
	done     chan struct{}
}

func newCaptureRecorder(target int) *captureRecorder {
	return &captureRecorder{
		bySeason: make(map[string][]string),
		target:   target,
		done:     make(chan struct{}),
	}
}

func (r *captureRecorder) RecordAttempt(_ context.Context, input ports.RecordAttemptInput) (*domain.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySeason[input.SeasonID] = append(r.bySeason[input.SeasonID], input.ContestantName)
	r.calls++
	if r.calls == r.target {
		close(r.done)
	}
	return &domain.Attempt{SeasonID: input.SeasonID}, nil
}

func (r *captureRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not drain the queue")
	}
}

func TestDispatcher_PreservesPerSeasonOrder(t *testing.T) {
	const perSeason = 50
	seasons := []string{"season_1", "season_2", "season_3"}

	rec := newCaptureRecorder(perSeason * len(seasons))
	d := NewDispatcher(4, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Interleave seasons to exercise the sharding, not just one worker.
	for i := 0; i < perSeason; i++ {
		for _, season := range seasons {
			d.Enqueue(ports.RecordAttemptInput{
				SeasonID:       season,
				CardID:         "card_1",
				ContestantName: fmt.Sprintf("contestant_%03d", i),
				Correct:        i%2 == 0,
				RecordedBy:     "user_1",
			})
		}
	}

	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, season := range seasons {
		got := rec.bySeason[season]
		if len(got) != perSeason {
			t.Fatalf("season %s: expected %d attempts, got %d", season, perSeason, len(got))
		}
		for i, name := range got {
			want := fmt.Sprintf("contestant_%03d", i)
			if name != want {
				t.Fatalf("season %s: attempt %d out of order: got %s, want %s", season, i, name, want)
			}
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, newCaptureRecorder(1), zerolog.Nop())

	for _, season := range []string{"season_1", "season_2", "playoffs-2026"} {
		first := d.shardIndex(season)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(season); got != first {
				t.Fatalf("season %s: shard changed between calls", season)
			}
		}
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("season %s: shard %d out of range", season, first)
		}
	}
}

func TestDispatcher_EnqueueBatch(t *testing.T) {
	rec := newCaptureRecorder(3)
	d := NewDispatcher(2, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueBatch([]ports.RecordAttemptInput{
		{SeasonID: "season_1", CardID: "card_1", ContestantName: "Alice", Correct: true, RecordedBy: "user_1"},
		{SeasonID: "season_1", CardID: "card_2", ContestantName: "Bob", Correct: false, RecordedBy: "user_1"},
		{SeasonID: "season_2", CardID: "card_1", ContestantName: "Carol", Correct: true, RecordedBy: "user_1"},
	})

	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.bySeason["season_1"]) != 2 || len(rec.bySeason["season_2"]) != 1 {
		t.Fatalf("unexpected distribution: %+v", rec.bySeason)
	}
}
