package domain

import "time"

// Card is a unit of trivia content belonging to a season.
type Card struct {
	ID       string `json:"id" bson:"id"`
	Prompt   string `json:"prompt" bson:"prompt"`
	Answer   string `json:"answer" bson:"answer"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
}

// Season groups cards into one run of the show.
type Season struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Number    int       `json:"number" bson:"number"`
	Cards     []Card    `json:"cards" bson:"cards"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CardByID returns the card with the given id, or nil when the season
// does not contain it.
func (s *Season) CardByID(cardID string) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == cardID {
			return &s.Cards[i]
		}
	}
	return nil
}

// CardIDs returns the ids of every card in the season, in season order.
func (s *Season) CardIDs() []string {
	ids := make([]string, len(s.Cards))
	for i, c := range s.Cards {
		ids[i] = c.ID
	}
	return ids
}
