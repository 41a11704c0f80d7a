package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubSeasonRepo struct {
	seasons map[string]*domain.Season
}

func newStubSeasonRepo(seasons ...*domain.Season) *stubSeasonRepo {
	r := &stubSeasonRepo{seasons: make(map[string]*domain.Season)}
	for _, s := range seasons {
		r.seasons[s.ID] = s
	}
	return r
}

func (r *stubSeasonRepo) Create(_ context.Context, s *domain.Season) (*domain.Season, error) {
	clone := *s
	r.seasons[clone.ID] = &clone
	return &clone, nil
}

func (r *stubSeasonRepo) FindByID(_ context.Context, id string) (*domain.Season, error) {
	s, ok := r.seasons[id]
	if !ok {
		return nil, domain.ErrSeasonNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSeasonRepo) List(_ context.Context) ([]*domain.Season, error) {
	out := make([]*domain.Season, 0, len(r.seasons))
	for _, s := range r.seasons {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubSeasonRepo) AddCard(_ context.Context, seasonID string, card domain.Card) (*domain.Season, error) {
	s, ok := r.seasons[seasonID]
	if !ok {
		return nil, domain.ErrSeasonNotFound
	}
	s.Cards = append(s.Cards, card)
	clone := *s
	return &clone, nil
}

type stubAttemptRepo struct {
	attempts  []domain.Attempt
	appendErr error // if set, Append returns this error
}

func (r *stubAttemptRepo) Append(_ context.Context, a *domain.Attempt) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *stubAttemptRepo) matches(a domain.Attempt, f ports.AttemptFilter) bool {
	if f.SeasonID != "" && a.SeasonID != f.SeasonID {
		return false
	}
	if f.CardID != "" && a.CardID != f.CardID {
		return false
	}
	if f.ContestantName != "" && a.ContestantName != f.ContestantName {
		return false
	}
	return true
}

func (r *stubAttemptRepo) List(_ context.Context, f ports.AttemptFilter) ([]domain.Attempt, int64, error) {
	var matched []domain.Attempt
	for _, a := range r.attempts {
		if r.matches(a, f) {
			matched = append(matched, a)
		}
	}
	total := int64(len(matched))

	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []domain.Attempt{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubAttemptRepo) FindAll(_ context.Context, f ports.AttemptFilter) ([]domain.Attempt, error) {
	var matched []domain.Attempt
	for _, a := range r.attempts {
		if r.matches(a, f) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (r *stubAttemptRepo) CountByContestant(_ context.Context, name string) (int64, error) {
	var n int64
	for _, a := range r.attempts {
		if a.ContestantName == name {
			n++
		}
	}
	return n, nil
}

type stubDeckRepo struct {
	decks      map[string]*domain.DeckState
	replaceErr error
}

func newStubDeckRepo() *stubDeckRepo {
	return &stubDeckRepo{decks: make(map[string]*domain.DeckState)}
}

func (r *stubDeckRepo) Replace(_ context.Context, d *domain.DeckState) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	clone := *d
	r.decks[d.SeasonID] = &clone
	return nil
}

func (r *stubDeckRepo) FindBySeason(_ context.Context, seasonID string) (*domain.DeckState, error) {
	d, ok := r.decks[seasonID]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

// recordingCache tracks cache traffic for assertions.
type recordingCache struct {
	store       map[string]*ports.SeasonStats
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: make(map[string]*ports.SeasonStats)}
}

func (c *recordingCache) Get(_ context.Context, seasonID string) (*ports.SeasonStats, error) {
	return c.store[seasonID], nil
}

func (c *recordingCache) Set(_ context.Context, seasonID string, s *ports.SeasonStats) error {
	c.store[seasonID] = s
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, seasonID string) error {
	delete(c.store, seasonID)
	c.invalidated = append(c.invalidated, seasonID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testSeason() *domain.Season {
	return &domain.Season{
		ID:     "season_1",
		Name:   "Season One",
		Number: 1,
		Cards: []domain.Card{
			{ID: "card_1", Prompt: "Capital of France?", Answer: "Paris"},
			{ID: "card_2", Prompt: "Largest planet?", Answer: "Jupiter"},
		},
	}
}

func newTestGameService(seasons *stubSeasonRepo, attempts *stubAttemptRepo, decks *stubDeckRepo, cache StatsCache) *GameService {
	return NewGameService(seasons, attempts, decks, cache, nopLogger)
}

func record(t *testing.T, svc *GameService, seasonID, cardID, name string, correct bool) *domain.Attempt {
	t.Helper()
	a, err := svc.RecordAttempt(context.Background(), ports.RecordAttemptInput{
		SeasonID:       seasonID,
		CardID:         cardID,
		ContestantName: name,
		Correct:        correct,
		RecordedBy:     "user_1",
	})
	if err != nil {
		t.Fatalf("record attempt: %v", err)
	}
	return a
}

// ---------------------------------------------------------------------------
// RecordAttempt
// ---------------------------------------------------------------------------

func TestGameService_RecordAttempt_Success(t *testing.T) {
	attempts := &stubAttemptRepo{}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	a := record(t, svc, "season_1", "card_1", "Alice", true)

	if !strings.HasPrefix(a.ID, "ATT-") {
		t.Errorf("attempt id format wrong: %s", a.ID)
	}
	if a.RecordedAt.IsZero() {
		t.Error("RecordedAt must not be zero")
	}
	if a.RecordedBy != "user_1" {
		t.Errorf("expected recorded_by user_1, got %s", a.RecordedBy)
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 stored attempt, got %d", len(attempts.attempts))
	}
}

func TestGameService_RecordAttempt_CardNotInSeason(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	_, err := svc.RecordAttempt(context.Background(), ports.RecordAttemptInput{
		SeasonID:       "season_1",
		CardID:         "card_999",
		ContestantName: "Alice",
		Correct:        true,
	})
	if !errors.Is(err, domain.ErrInvalidCardAssociation) {
		t.Fatalf("expected ErrInvalidCardAssociation, got %v", err)
	}
}

func TestGameService_RecordAttempt_UnknownSeason(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	_, err := svc.RecordAttempt(context.Background(), ports.RecordAttemptInput{
		SeasonID:       "season_999",
		CardID:         "card_1",
		ContestantName: "Alice",
	})
	if !errors.Is(err, domain.ErrAttemptRecording) {
		t.Fatalf("expected ErrAttemptRecording, got %v", err)
	}
}

func TestGameService_RecordAttempt_MissingContestant(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	_, err := svc.RecordAttempt(context.Background(), ports.RecordAttemptInput{
		SeasonID: "season_1",
		CardID:   "card_1",
	})
	if !errors.Is(err, domain.ErrAttemptRecording) {
		t.Fatalf("expected ErrAttemptRecording, got %v", err)
	}
}

func TestGameService_RecordAttempt_InfrastructureFailureIsDistinguishable(t *testing.T) {
	attempts := &stubAttemptRepo{appendErr: errors.New("connection reset")}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	_, err := svc.RecordAttempt(context.Background(), ports.RecordAttemptInput{
		SeasonID:       "season_1",
		CardID:         "card_1",
		ContestantName: "Alice",
	})

	var ie *domain.InfrastructureError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InfrastructureError, got %v", err)
	}
	if errors.Is(err, domain.ErrAttemptRecording) {
		t.Error("infrastructure failure must not read as a validation failure")
	}
}

// Recording is not deduplicated: two identical calls append two entries.
func TestGameService_RecordAttempt_NoDeduplication(t *testing.T) {
	attempts := &stubAttemptRepo{}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	before, err := svc.GetAttemptHistory(context.Background(), ports.AttemptFilter{SeasonID: "season_1"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	record(t, svc, "season_1", "card_1", "Alice", true)
	record(t, svc, "season_1", "card_1", "Alice", true)

	after, err := svc.GetAttemptHistory(context.Background(), ports.AttemptFilter{SeasonID: "season_1"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if after.Total != before.Total+2 {
		t.Fatalf("expected total to grow by 2, got %d -> %d", before.Total, after.Total)
	}
	if attempts.attempts[0].ID == attempts.attempts[1].ID {
		t.Error("two recordings must produce distinct log entries")
	}
}

// ---------------------------------------------------------------------------
// ResetDeck
// ---------------------------------------------------------------------------

func TestGameService_ResetDeck_ReturnsFullCardSet(t *testing.T) {
	decks := newStubDeckRepo()
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, decks, nil)

	deck, err := svc.ResetDeck(context.Background(), "season_1", "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deck.Cursor != 0 {
		t.Errorf("expected cursor 0, got %d", deck.Cursor)
	}
	if len(deck.Remaining) != 2 {
		t.Fatalf("expected 2 remaining cards, got %d", len(deck.Remaining))
	}
	if deck.ResetBy != "user_1" {
		t.Errorf("expected reset_by user_1, got %s", deck.ResetBy)
	}
	if decks.decks["season_1"] == nil {
		t.Fatal("deck state not persisted")
	}
}

func TestGameService_ResetDeck_UnknownSeason(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	_, err := svc.ResetDeck(context.Background(), "season_999", "user_1")
	if !errors.Is(err, domain.ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got %v", err)
	}
}

// A reset never touches the attempt log.
func TestGameService_ResetDeck_PreservesAttemptLog(t *testing.T) {
	attempts := &stubAttemptRepo{}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	record(t, svc, "season_1", "card_1", "Alice", true)
	record(t, svc, "season_1", "card_2", "Bob", false)

	before := len(attempts.attempts)
	if _, err := svc.ResetDeck(context.Background(), "season_1", "user_1"); err != nil {
		t.Fatalf("reset deck: %v", err)
	}
	if len(attempts.attempts) != before {
		t.Fatalf("reset changed attempt count: %d -> %d", before, len(attempts.attempts))
	}
}

// Two sequential resets settle on the later writer's state.
func TestGameService_ResetDeck_LastWriterWins(t *testing.T) {
	decks := newStubDeckRepo()
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, decks, nil)

	if _, err := svc.ResetDeck(context.Background(), "season_1", "producer_a"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if _, err := svc.ResetDeck(context.Background(), "season_1", "producer_b"); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	deck, err := svc.GetDeck(context.Background(), "season_1")
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if deck.ResetBy != "producer_b" {
		t.Errorf("expected last writer producer_b, got %s", deck.ResetBy)
	}
}

// ---------------------------------------------------------------------------
// GetAttemptHistory
// ---------------------------------------------------------------------------

func TestGameService_History_Pagination(t *testing.T) {
	attempts := &stubAttemptRepo{}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	for i := 0; i < 5; i++ {
		record(t, svc, "season_1", "card_1", "Alice", i%2 == 0)
	}

	page, err := svc.GetAttemptHistory(context.Background(), ports.AttemptFilter{
		SeasonID: "season_1",
		Page:     2,
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items on page 2, got %d", len(page.Items))
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", page.TotalPages)
	}
}

func TestGameService_History_FilterByContestant(t *testing.T) {
	attempts := &stubAttemptRepo{}
	svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)

	record(t, svc, "season_1", "card_1", "Alice", true)
	record(t, svc, "season_1", "card_1", "Bob", true)

	page, err := svc.GetAttemptHistory(context.Background(), ports.AttemptFilter{ContestantName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected total 1, got %d", page.Total)
	}
}

func TestGameService_History_LimitCapped(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	page, err := svc.GetAttemptHistory(context.Background(), ports.AttemptFilter{Limit: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != maxPageLimit {
		t.Errorf("expected limit capped at %d, got %d", maxPageLimit, page.Limit)
	}
	if page.Page != 1 {
		t.Errorf("expected default page 1, got %d", page.Page)
	}
}

// ---------------------------------------------------------------------------
// GetContestantPerformance
// ---------------------------------------------------------------------------

// The worked example: Alice answers C1 correct and C2 incorrect, Bob
// answers C1 correct.
func seedWorkedExample(t *testing.T, svc *GameService) {
	t.Helper()
	record(t, svc, "season_1", "card_1", "Alice", true)
	record(t, svc, "season_1", "card_2", "Alice", false)
	record(t, svc, "season_1", "card_1", "Bob", true)
}

func TestGameService_Performance_WorkedExample(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)
	seedWorkedExample(t, svc)

	perf, err := svc.GetContestantPerformance(context.Background(), "Alice", "season_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perf.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", perf.Attempts)
	}
	if perf.Accuracy != 0.5 {
		t.Errorf("expected accuracy 0.5, got %v", perf.Accuracy)
	}
}

func TestGameService_Performance_UnknownContestant(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)
	seedWorkedExample(t, svc)

	_, err := svc.GetContestantPerformance(context.Background(), "Carol", "season_1")
	if !errors.Is(err, domain.ErrContestantNotFound) {
		t.Fatalf("expected ErrContestantNotFound, got %v", err)
	}
}

// A contestant known in another season is a valid empty result under a
// season filter, not a not-found.
func TestGameService_Performance_KnownContestantEmptySeason(t *testing.T) {
	seasons := newStubSeasonRepo(testSeason(), &domain.Season{
		ID:     "season_2",
		Name:   "Season Two",
		Number: 2,
		Cards:  []domain.Card{{ID: "card_9", Prompt: "?", Answer: "!"}},
	})
	svc := newTestGameService(seasons, &stubAttemptRepo{}, newStubDeckRepo(), nil)
	record(t, svc, "season_2", "card_9", "Dave", true)

	perf, err := svc.GetContestantPerformance(context.Background(), "Dave", "season_1")
	if err != nil {
		t.Fatalf("expected valid empty result, got %v", err)
	}
	if perf.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", perf.Attempts)
	}
	if perf.Accuracy != 0 {
		t.Errorf("expected accuracy 0, got %v", perf.Accuracy)
	}
}

// Names match exactly, case-sensitive: "alice" is not "Alice".
func TestGameService_Performance_CaseSensitiveName(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)
	seedWorkedExample(t, svc)

	_, err := svc.GetContestantPerformance(context.Background(), "alice", "season_1")
	if !errors.Is(err, domain.ErrContestantNotFound) {
		t.Fatalf("expected ErrContestantNotFound for case mismatch, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetSeasonGameStats
// ---------------------------------------------------------------------------

func TestGameService_SeasonStats_WorkedExample(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), nil)
	seedWorkedExample(t, svc)

	s, err := svc.GetSeasonGameStats(context.Background(), "season_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Attempts != 3 || s.Correct != 2 || s.Incorrect != 1 {
		t.Errorf("expected 3/2/1, got %d/%d/%d", s.Attempts, s.Correct, s.Incorrect)
	}
	if s.Contestants != 2 {
		t.Errorf("expected 2 contestants, got %d", s.Contestants)
	}
}

func TestGameService_SeasonStats_UnknownSeason(t *testing.T) {
	svc := newTestGameService(newStubSeasonRepo(), &stubAttemptRepo{}, newStubDeckRepo(), nil)

	_, err := svc.GetSeasonGameStats(context.Background(), "season_999")
	if !errors.Is(err, domain.ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got %v", err)
	}
}

// Inserting the same attempts in any permutation yields identical
// aggregates.
func TestGameService_SeasonStats_OrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	build := func(order []int) (*GameService, *stubAttemptRepo) {
		attempts := &stubAttemptRepo{}
		svc := newTestGameService(newStubSeasonRepo(testSeason()), attempts, newStubDeckRepo(), nil)
		fixed := []domain.Attempt{
			{ID: "a1", SeasonID: "season_1", CardID: "card_1", ContestantName: "Alice", Correct: true, RecordedAt: base},
			{ID: "a2", SeasonID: "season_1", CardID: "card_2", ContestantName: "Alice", Correct: false, RecordedAt: base.Add(time.Minute)},
			{ID: "a3", SeasonID: "season_1", CardID: "card_1", ContestantName: "Bob", Correct: true, RecordedAt: base.Add(2 * time.Minute)},
			{ID: "a4", SeasonID: "season_1", CardID: "card_2", ContestantName: "Bob", Correct: true, RecordedAt: base.Add(3 * time.Minute)},
		}
		for _, i := range order {
			attempts.attempts = append(attempts.attempts, fixed[i])
		}
		return svc, attempts
	}

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}
	var first *ports.SeasonStats
	for _, order := range orders {
		svc, _ := build(order)
		s, err := svc.GetSeasonGameStats(context.Background(), "season_1")
		if err != nil {
			t.Fatalf("order %v: %v", order, err)
		}
		if first == nil {
			first = s
			continue
		}
		if s.Attempts != first.Attempts || s.Correct != first.Correct ||
			s.Incorrect != first.Incorrect || s.Accuracy != first.Accuracy ||
			s.Contestants != first.Contestants {
			t.Errorf("order %v: aggregates differ: %+v vs %+v", order, s, first)
		}
		for i := range s.ByCard {
			if s.ByCard[i] != first.ByCard[i] {
				t.Errorf("order %v: card breakdown differs at %d", order, i)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Stats cache interaction
// ---------------------------------------------------------------------------

func TestGameService_SeasonStats_CacheHitShortCircuits(t *testing.T) {
	cache := newRecordingCache()
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), cache)
	seedWorkedExample(t, svc)

	first, err := svc.GetSeasonGameStats(context.Background(), "season_1")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.GetSeasonGameStats(context.Background(), "season_1")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !second.ComputedAt.Equal(first.ComputedAt) {
		t.Error("expected second read to come from cache")
	}
}

func TestGameService_RecordAttempt_InvalidatesCache(t *testing.T) {
	cache := newRecordingCache()
	svc := newTestGameService(newStubSeasonRepo(testSeason()), &stubAttemptRepo{}, newStubDeckRepo(), cache)

	record(t, svc, "season_1", "card_1", "Alice", true)

	found := false
	for _, id := range cache.invalidated {
		if id == "season_1" {
			found = true
		}
	}
	if !found {
		t.Error("expected cache invalidation for season_1 on append")
	}
}

var _ ports.GameService = (*GameService)(nil)
