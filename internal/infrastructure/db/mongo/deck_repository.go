package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

const collectionDecks = "decks"

// DeckRepository keys one deck document per season (_id = season id).
type DeckRepository struct {
	col *mongo.Collection
}

func NewDeckRepository(db *mongo.Database) *DeckRepository {
	return &DeckRepository{col: db.Collection(collectionDecks)}
}

// Replace writes the deck state wholesale with a single upserting
// ReplaceOne. Concurrent replaces of the same season settle
// last-writer-wins; there is no read-modify-write window.
func (r *DeckRepository) Replace(ctx context.Context, deck *domain.DeckState) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": deck.SeasonID}, deck, opts); err != nil {
		return fmt.Errorf("replace deck: %w", err)
	}
	return nil
}

// FindBySeason returns the season's deck state, or nil when the season has
// never been reset.
func (r *DeckRepository) FindBySeason(ctx context.Context, seasonID string) (*domain.DeckState, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deck domain.DeckState
	err := r.col.FindOne(ctx, bson.M{"_id": seasonID}).Decode(&deck)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find deck: %w", err)
	}
	return &deck, nil
}
