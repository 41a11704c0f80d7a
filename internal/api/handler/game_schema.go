package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type recordAttemptRequest struct {
	SeasonID       string `json:"season_id"       validate:"required"`
	CardID         string `json:"card_id"         validate:"required"`
	ContestantName string `json:"contestant_name" validate:"required"`
	Correct        *bool  `json:"correct"         validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type attemptResponse struct {
	ID             string    `json:"id"`
	SeasonID       string    `json:"season_id"`
	CardID         string    `json:"card_id"`
	ContestantName string    `json:"contestant_name"`
	Correct        bool      `json:"correct"`
	RecordedBy     string    `json:"recorded_by"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type historyResponse struct {
	Data       []attemptResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type cardBreakdownResponse struct {
	CardID    string `json:"card_id"`
	Attempts  int    `json:"attempts"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

type performanceResponse struct {
	ContestantName string                  `json:"contestant_name"`
	SeasonID       string                  `json:"season_id,omitempty"`
	Attempts       int                     `json:"attempts"`
	Correct        int                     `json:"correct"`
	Incorrect      int                     `json:"incorrect"`
	Accuracy       float64                 `json:"accuracy"`
	LongestStreak  int                     `json:"longest_streak"`
	ByCard         []cardBreakdownResponse `json:"by_card"`
}

type seasonStatsResponse struct {
	SeasonID    string                  `json:"season_id"`
	Attempts    int                     `json:"attempts"`
	Correct     int                     `json:"correct"`
	Incorrect   int                     `json:"incorrect"`
	Accuracy    float64                 `json:"accuracy"`
	Contestants int                     `json:"contestants"`
	ByCard      []cardBreakdownResponse `json:"by_card"`
	ComputedAt  time.Time               `json:"computed_at"`
}

type deckStateResponse struct {
	SeasonID  string    `json:"season_id"`
	Cursor    int       `json:"cursor"`
	Remaining []string  `json:"remaining"`
	ResetBy   string    `json:"reset_by"`
	ResetAt   time.Time `json:"reset_at"`
}
