package domain

import "time"

// DeckState is the per-season cursor over the season's cards. Exactly one
// logical deck state exists per season; a reset replaces it wholesale
// rather than patching fields, so concurrent resets settle last-writer-wins
// with no partially-applied intermediate.
type DeckState struct {
	SeasonID  string    `json:"season_id" bson:"_id"`
	Cursor    int       `json:"cursor" bson:"cursor"`
	Remaining []string  `json:"remaining" bson:"remaining"`
	ResetBy   string    `json:"reset_by" bson:"reset_by"`
	ResetAt   time.Time `json:"reset_at" bson:"reset_at"`
}
