package domain

import "time"

// Attempt is one contestant's answer to one card. Attempts form an
// append-only log: they are never updated or deleted, and two attempts
// with identical fields are two distinct log entries. Every aggregate
// in the system is a pure function of this log.
type Attempt struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	SeasonID       string    `json:"season_id" bson:"season_id"`
	CardID         string    `json:"card_id" bson:"card_id"`
	ContestantName string    `json:"contestant_name" bson:"contestant_name"`
	Correct        bool      `json:"correct" bson:"correct"`
	RecordedBy     string    `json:"recorded_by" bson:"recorded_by"`
	RecordedAt     time.Time `json:"recorded_at" bson:"recorded_at"`
}
