package ports

import (
	"context"
	"time"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// RecordAttemptInput carries all data needed to record one attempt.
type RecordAttemptInput struct {
	SeasonID       string
	CardID         string
	ContestantName string
	Correct        bool
	RecordedBy     string
}

// AttemptPage is one page of the attempt history.
type AttemptPage struct {
	Items      []domain.Attempt
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CardBreakdown is the per-card slice of an aggregate.
type CardBreakdown struct {
	CardID    string
	Attempts  int
	Correct   int
	Incorrect int
}

// PerformanceSummary is a contestant's aggregate over the (optionally
// season-filtered) attempt log.
type PerformanceSummary struct {
	ContestantName string
	SeasonID       string // empty = all seasons
	Attempts       int
	Correct        int
	Incorrect      int
	Accuracy       float64
	LongestStreak  int
	ByCard         []CardBreakdown
}

// SeasonStats is the aggregate over every attempt in one season.
type SeasonStats struct {
	SeasonID    string
	Attempts    int
	Correct     int
	Incorrect   int
	Accuracy    float64
	Contestants int
	ByCard      []CardBreakdown
	ComputedAt  time.Time
}

// GameService defines the game-session use cases. Authorization happens in
// the transport layer before any of these run; every method here assumes an
// already-authorized caller.
type GameService interface {
	RecordAttempt(ctx context.Context, input RecordAttemptInput) (*domain.Attempt, error)
	ResetDeck(ctx context.Context, seasonID, resetBy string) (*domain.DeckState, error)
	GetDeck(ctx context.Context, seasonID string) (*domain.DeckState, error)
	GetAttemptHistory(ctx context.Context, filter AttemptFilter) (*AttemptPage, error)
	GetContestantPerformance(ctx context.Context, contestantName, seasonID string) (*PerformanceSummary, error)
	GetSeasonGameStats(ctx context.Context, seasonID string) (*SeasonStats, error)
}
