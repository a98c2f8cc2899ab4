package models

import "time"

// WordCard represents a single prompt word available for presentation.
// Cards are created and deactivated by administrators; game code only
// reads them.
type WordCard struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	Category  string    `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
