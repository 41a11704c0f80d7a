package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

const collectionSeasons = "seasons"

// SeasonRepository persists seasons with their cards embedded in the
// season document.
type SeasonRepository struct {
	col *mongo.Collection
}

func NewSeasonRepository(db *mongo.Database) *SeasonRepository {
	return &SeasonRepository{col: db.Collection(collectionSeasons)}
}

type mongoSeason struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Number    int                `bson:"number"`
	Cards     []domain.Card      `bson:"cards"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *SeasonRepository) Create(ctx context.Context, season *domain.Season) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSeason{
		Name:      season.Name,
		Number:    season.Number,
		Cards:     season.Cards,
		CreatedAt: time.Now().UTC(),
	}
	if doc.Cards == nil {
		doc.Cards = []domain.Card{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}

	created := *season
	created.CreatedAt = doc.CreatedAt
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *SeasonRepository) FindByID(ctx context.Context, id string) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSeasonNotFound
	}

	var ms mongoSeason
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, fmt.Errorf("find season: %w", err)
	}
	return toDomainSeason(ms), nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer cur.Close(ctx)

	var seasons []*domain.Season
	for cur.Next(ctx) {
		var ms mongoSeason
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode season: %w", err)
		}
		seasons = append(seasons, toDomainSeason(ms))
	}
	return seasons, cur.Err()
}

// AddCard pushes one card onto the season's embedded card list.
func (r *SeasonRepository) AddCard(ctx context.Context, seasonID string, card domain.Card) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(seasonID)
	if err != nil {
		return nil, domain.ErrSeasonNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"cards": card}})
	if err != nil {
		return nil, fmt.Errorf("add card: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrSeasonNotFound
	}

	return r.FindByID(ctx, seasonID)
}

func toDomainSeason(ms mongoSeason) *domain.Season {
	return &domain.Season{
		ID:        ms.ID.Hex(),
		Name:      ms.Name,
		Number:    ms.Number,
		Cards:     ms.Cards,
		CreatedAt: ms.CreatedAt,
	}
}
