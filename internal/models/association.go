package models

import "time"

// PlaceholderResponse is stored in place of an association the user did
// not type before the timer ran out. It is never an empty string at rest.
const PlaceholderResponse = "(no response)"

// AssociationRecord is one completed round: a prompt word, the three
// reactions the user typed, and the generated insight. Records are
// append-only; nothing updates or deletes them.
type AssociationRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CardID       int64     `json:"card_id"`
	Word         string    `json:"word"`
	Association1 string    `json:"association_1"`
	Association2 string    `json:"association_2"`
	Association3 string    `json:"association_3"`
	TimeTaken    int       `json:"time_taken"`
	AISummary    string    `json:"ai_summary"`
	CreatedAt    time.Time `json:"created_at"`
}
