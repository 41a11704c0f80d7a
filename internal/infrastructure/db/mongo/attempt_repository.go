package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

const collectionAttempts = "attempts"

// AttemptRepository is the append-only attempt log. Inserts only; no
// update or delete path exists on this collection.
type AttemptRepository struct {
	col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{col: db.Collection(collectionAttempts)}
}

// Append inserts one attempt document.
func (r *AttemptRepository) Append(ctx context.Context, attempt *domain.Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, attempt); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// List returns a page of attempts matching filter, newest first, and the
// total count of matches at call time.
func (r *AttemptRepository) List(ctx context.Context, filter ports.AttemptFilter) ([]domain.Attempt, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := filterQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count attempts: %w", err)
	}

	skip := int64(filter.Page-1) * int64(filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list attempts: %w", err)
	}
	defer cur.Close(ctx)

	attempts := []domain.Attempt{}
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, 0, fmt.Errorf("decode attempts: %w", err)
	}
	return attempts, total, nil
}

// FindAll returns every attempt matching filter, unpaginated.
func (r *AttemptRepository) FindAll(ctx context.Context, filter ports.AttemptFilter) ([]domain.Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("find attempts: %w", err)
	}
	defer cur.Close(ctx)

	attempts := []domain.Attempt{}
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	return attempts, nil
}

// CountByContestant counts the named contestant's attempts across all
// seasons. The name matches exactly, case-sensitive.
func (r *AttemptRepository) CountByContestant(ctx context.Context, contestantName string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"contestant_name": contestantName})
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the query indexes on the attempts collection.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "season_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
		{Keys: bson.D{{Key: "contestant_name", Value: 1}}},
		{Keys: bson.D{{Key: "card_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func filterQuery(filter ports.AttemptFilter) bson.M {
	query := bson.M{}
	if filter.SeasonID != "" {
		query["season_id"] = filter.SeasonID
	}
	if filter.CardID != "" {
		query["card_id"] = filter.CardID
	}
	if filter.ContestantName != "" {
		query["contestant_name"] = filter.ContestantName
	}
	return query
}
