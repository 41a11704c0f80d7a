// Package stats computes aggregates over slices of the attempt log. Every
// function is pure and order-independent: any permutation of the same
// attempts yields the same result. Streaks are computed over a copy sorted
// by (recorded_at, id), so interleaved concurrent appends converge to one
// answer once the log converges.
package stats

import (
	"sort"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// CardCount is the per-card slice of a summary.
type CardCount struct {
	CardID    string
	Attempts  int
	Correct   int
	Incorrect int
}

// Summary aggregates one slice of attempts.
type Summary struct {
	Attempts      int
	Correct       int
	Incorrect     int
	Accuracy      float64
	LongestStreak int
	Contestants   int
	ByCard        []CardCount
}

// Summarize computes the full aggregate for attempts. An empty slice yields
// the zero Summary with Accuracy 0 (never a division by zero).
func Summarize(attempts []domain.Attempt) Summary {
	var s Summary
	s.Attempts = len(attempts)
	if s.Attempts == 0 {
		return s
	}

	byCard := make(map[string]*CardCount)
	names := make(map[string]struct{})
	for _, a := range attempts {
		if a.Correct {
			s.Correct++
		} else {
			s.Incorrect++
		}
		names[a.ContestantName] = struct{}{}

		cc := byCard[a.CardID]
		if cc == nil {
			cc = &CardCount{CardID: a.CardID}
			byCard[a.CardID] = cc
		}
		cc.Attempts++
		if a.Correct {
			cc.Correct++
		} else {
			cc.Incorrect++
		}
	}

	s.Accuracy = Accuracy(s.Correct, s.Attempts)
	s.LongestStreak = LongestStreak(attempts)
	s.Contestants = len(names)

	s.ByCard = make([]CardCount, 0, len(byCard))
	for _, cc := range byCard {
		s.ByCard = append(s.ByCard, *cc)
	}
	sort.Slice(s.ByCard, func(i, j int) bool { return s.ByCard[i].CardID < s.ByCard[j].CardID })

	return s
}

// Accuracy returns correct/total, or 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// LongestStreak returns the length of the longest run of consecutive
// correct attempts in log order.
func LongestStreak(attempts []domain.Attempt) int {
	ordered := chronological(attempts)

	longest, run := 0, 0
	for _, a := range ordered {
		if a.Correct {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// chronological returns a copy of attempts sorted by (recorded_at, id).
// The id tiebreak makes the order total, so equal timestamps cannot make
// the result depend on input order.
func chronological(attempts []domain.Attempt) []domain.Attempt {
	ordered := make([]domain.Attempt, len(attempts))
	copy(ordered, attempts)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].RecordedAt.Equal(ordered[j].RecordedAt) {
			return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
