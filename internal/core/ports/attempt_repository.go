package ports

import (
	"context"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// AttemptFilter carries the query parameters for listing attempts. Empty
// string fields mean no filter. ContestantName matches exactly,
// case-sensitive.
type AttemptFilter struct {
	SeasonID       string
	CardID         string
	ContestantName string
	Page           int // 1-based
	Limit          int // max rows per page (capped by the service)
}

// AttemptRepository is the append-only attempt log. There is no update or
// delete: recorded attempts are immutable.
type AttemptRepository interface {
	// Append inserts one attempt. The caller assigns the id.
	Append(ctx context.Context, attempt *domain.Attempt) error
	// List returns a page of attempts matching filter and the total count of
	// matches at call time.
	List(ctx context.Context, filter AttemptFilter) ([]domain.Attempt, int64, error)
	// FindAll returns every attempt matching filter, unpaginated, for
	// aggregation.
	FindAll(ctx context.Context, filter AttemptFilter) ([]domain.Attempt, error)
	// CountByContestant counts attempts by the named contestant across all
	// seasons.
	CountByContestant(ctx context.Context, contestantName string) (int64, error)
}
