package ports

import (
	"context"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// SeasonRepository defines persistence for seasons and their cards. Cards
// are embedded in the season document.
type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) (*domain.Season, error)
	FindByID(ctx context.Context, id string) (*domain.Season, error)
	List(ctx context.Context) ([]*domain.Season, error)
	AddCard(ctx context.Context, seasonID string, card domain.Card) (*domain.Season, error)
}
