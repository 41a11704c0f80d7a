package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
	"github.com/triviahq/gameshow-system/internal/core/stats"
)

const maxPageLimit = 100

// StatsCache is an optional cache-aside layer for season stats, invalidated
// on every append for the season. Failures are advisory: the service falls
// through to recomputation.
type StatsCache interface {
	Get(ctx context.Context, seasonID string) (*ports.SeasonStats, error)
	Set(ctx context.Context, seasonID string, s *ports.SeasonStats) error
	Invalidate(ctx context.Context, seasonID string) error
}

// GameService records attempts, resets decks, and serves aggregates derived
// from the append-only attempt log.
type GameService struct {
	seasons  ports.SeasonRepository
	attempts ports.AttemptRepository
	decks    ports.DeckRepository
	cache    StatsCache // nil disables caching
	log      zerolog.Logger
}

func NewGameService(
	seasons ports.SeasonRepository,
	attempts ports.AttemptRepository,
	decks ports.DeckRepository,
	cache StatsCache,
	log zerolog.Logger,
) *GameService {
	return &GameService{seasons: seasons, attempts: attempts, decks: decks, cache: cache, log: log}
}

// RecordAttempt validates the season/card pair and appends one immutable
// attempt. Recording is deliberately not deduplicated: a repeated attempt
// with identical fields is a legitimate gameplay event and produces a
// second log entry.
func (s *GameService) RecordAttempt(ctx context.Context, input ports.RecordAttemptInput) (*domain.Attempt, error) {
	if input.ContestantName == "" {
		return nil, fmt.Errorf("%w: contestant name is required", domain.ErrAttemptRecording)
	}
	if input.SeasonID == "" || input.CardID == "" {
		return nil, fmt.Errorf("%w: season and card are required", domain.ErrAttemptRecording)
	}

	season, err := s.seasons.FindByID(ctx, input.SeasonID)
	if err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAttemptRecording, domain.ErrSeasonNotFound)
		}
		return nil, domain.Infra("find season", err)
	}
	if season.CardByID(input.CardID) == nil {
		return nil, domain.ErrInvalidCardAssociation
	}

	attempt := &domain.Attempt{
		ID:             newAttemptID(),
		SeasonID:       input.SeasonID,
		CardID:         input.CardID,
		ContestantName: input.ContestantName,
		Correct:        input.Correct,
		RecordedBy:     input.RecordedBy,
		RecordedAt:     time.Now().UTC(),
	}

	if err := s.attempts.Append(ctx, attempt); err != nil {
		s.log.Error().Err(err).Str("season_id", input.SeasonID).Msg("failed to append attempt")
		return nil, domain.Infra("append attempt", err)
	}

	s.invalidateStats(ctx, input.SeasonID)

	s.log.Info().
		Str("attempt_id", attempt.ID).
		Str("season_id", attempt.SeasonID).
		Str("card_id", attempt.CardID).
		Str("contestant", attempt.ContestantName).
		Bool("correct", attempt.Correct).
		Msg("attempt recorded")

	return attempt, nil
}

// ResetDeck replaces the season's deck state wholesale with a fresh cursor
// over the full card set. The attempt log is untouched; concurrent resets
// of the same season settle last-writer-wins on the single replace write.
func (s *GameService) ResetDeck(ctx context.Context, seasonID, resetBy string) (*domain.DeckState, error) {
	season, err := s.seasons.FindByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, domain.Infra("find season", err)
	}

	deck := &domain.DeckState{
		SeasonID:  season.ID,
		Cursor:    0,
		Remaining: season.CardIDs(),
		ResetBy:   resetBy,
		ResetAt:   time.Now().UTC(),
	}

	if err := s.decks.Replace(ctx, deck); err != nil {
		s.log.Error().Err(err).Str("season_id", seasonID).Msg("failed to reset deck")
		return nil, domain.Infra("replace deck", err)
	}

	s.log.Info().Str("season_id", seasonID).Int("cards", len(deck.Remaining)).Str("reset_by", resetBy).Msg("deck reset")
	return deck, nil
}

// GetDeck returns the current deck state for a season. A season that has
// never been reset has no deck state yet.
func (s *GameService) GetDeck(ctx context.Context, seasonID string) (*domain.DeckState, error) {
	if _, err := s.seasons.FindByID(ctx, seasonID); err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, domain.Infra("find season", err)
	}

	deck, err := s.decks.FindBySeason(ctx, seasonID)
	if err != nil {
		return nil, domain.Infra("find deck", err)
	}
	return deck, nil
}

// GetAttemptHistory returns one page of the attempt log under the given
// filters. Pagination is 1-indexed and the total reflects the filter
// applied to the full log at call time.
func (s *GameService) GetAttemptHistory(ctx context.Context, filter ports.AttemptFilter) (*ports.AttemptPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.attempts.List(ctx, filter)
	if err != nil {
		return nil, domain.Infra("list attempts", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.AttemptPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetContestantPerformance aggregates the named contestant's attempts,
// optionally restricted to one season. The name matches exactly and
// case-sensitively. ErrContestantNotFound fires only when the name matches
// nothing anywhere in the log; a known contestant with zero attempts under
// the season filter is a valid empty summary.
func (s *GameService) GetContestantPerformance(ctx context.Context, contestantName, seasonID string) (*ports.PerformanceSummary, error) {
	attempts, err := s.attempts.FindAll(ctx, ports.AttemptFilter{
		ContestantName: contestantName,
		SeasonID:       seasonID,
	})
	if err != nil {
		return nil, domain.Infra("find attempts", err)
	}

	if len(attempts) == 0 {
		n, err := s.attempts.CountByContestant(ctx, contestantName)
		if err != nil {
			return nil, domain.Infra("count attempts", err)
		}
		if n == 0 {
			return nil, domain.ErrContestantNotFound
		}
	}

	summary := stats.Summarize(attempts)
	return &ports.PerformanceSummary{
		ContestantName: contestantName,
		SeasonID:       seasonID,
		Attempts:       summary.Attempts,
		Correct:        summary.Correct,
		Incorrect:      summary.Incorrect,
		Accuracy:       summary.Accuracy,
		LongestStreak:  summary.LongestStreak,
		ByCard:         toCardBreakdowns(summary.ByCard),
	}, nil
}

// GetSeasonGameStats aggregates every attempt in one season. The result is
// a pure function of the attempt log; the optional cache only short-cuts
// recomputation and is dropped on every append.
func (s *GameService) GetSeasonGameStats(ctx context.Context, seasonID string) (*ports.SeasonStats, error) {
	if _, err := s.seasons.FindByID(ctx, seasonID); err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, domain.Infra("find season", err)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, seasonID)
		if err != nil {
			s.log.Warn().Err(err).Str("season_id", seasonID).Msg("stats cache read failed, recomputing")
		} else if cached != nil {
			return cached, nil
		}
	}

	attempts, err := s.attempts.FindAll(ctx, ports.AttemptFilter{SeasonID: seasonID})
	if err != nil {
		return nil, domain.Infra("find attempts", err)
	}

	summary := stats.Summarize(attempts)
	result := &ports.SeasonStats{
		SeasonID:    seasonID,
		Attempts:    summary.Attempts,
		Correct:     summary.Correct,
		Incorrect:   summary.Incorrect,
		Accuracy:    summary.Accuracy,
		Contestants: summary.Contestants,
		ByCard:      toCardBreakdowns(summary.ByCard),
		ComputedAt:  time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, seasonID, result); err != nil {
			s.log.Warn().Err(err).Str("season_id", seasonID).Msg("stats cache write failed")
		}
	}

	return result, nil
}

func (s *GameService) invalidateStats(ctx context.Context, seasonID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, seasonID); err != nil {
		s.log.Warn().Err(err).Str("season_id", seasonID).Msg("stats cache invalidation failed")
	}
}

func toCardBreakdowns(counts []stats.CardCount) []ports.CardBreakdown {
	out := make([]ports.CardBreakdown, len(counts))
	for i, cc := range counts {
		out[i] = ports.CardBreakdown{
			CardID:    cc.CardID,
			Attempts:  cc.Attempts,
			Correct:   cc.Correct,
			Incorrect: cc.Incorrect,
		}
	}
	return out
}

// newAttemptID returns a random attempt id in the format ATT-XXXXXXXXXXXX.
func newAttemptID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ATT-%012X", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("ATT-%012X", b)
}
