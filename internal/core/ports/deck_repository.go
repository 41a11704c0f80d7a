package ports

import (
	"context"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// DeckRepository keys deck state by season id. Replace is a single atomic
// wholesale write, never a read-modify-write.
type DeckRepository interface {
	Replace(ctx context.Context, deck *domain.DeckState) error
	FindBySeason(ctx context.Context, seasonID string) (*domain.DeckState, error)
}
