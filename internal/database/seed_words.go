package database

import "fmt"

// sampleWords is the starter catalogue inserted on first run so a fresh
// install is playable before an administrator adds their own cards.
var sampleWords = []struct {
	word     string
	category string
}{
	{"Success", "Growth & Development"},
	{"Failure", "Growth & Development"},
	{"Challenge", "Growth & Development"},
	{"Growth", "Growth & Development"},
	{"Learning", "Growth & Development"},
	{"Practice", "Growth & Development"},

	{"Fear", "Emotions & Feelings"},
	{"Joy", "Emotions & Feelings"},
	{"Anxiety", "Emotions & Feelings"},
	{"Confidence", "Emotions & Feelings"},
	{"Hope", "Emotions & Feelings"},
	{"Pride", "Emotions & Feelings"},

	{"Friendship", "Relationships"},
	{"Trust", "Relationships"},
	{"Communication", "Relationships"},
	{"Teamwork", "Relationships"},
	{"Support", "Relationships"},
	{"Conflict", "Relationships"},

	{"Dream", "Future & Goals"},
	{"Goal", "Future & Goals"},
	{"Career", "Future & Goals"},
	{"Ambition", "Future & Goals"},
	{"Plan", "Future & Goals"},
	{"Vision", "Future & Goals"},

	{"Identity", "Self & Identity"},
	{"Strength", "Self & Identity"},
	{"Weakness", "Self & Identity"},
	{"Talent", "Self & Identity"},
	{"Passion", "Self & Identity"},
	{"Value", "Self & Identity"},
}

// SeedSampleWords inserts the starter word cards if the cards table is
// empty. Existing catalogues are never touched.
func (db *DB) SeedSampleWords() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&count); err != nil {
		return fmt.Errorf("failed to count cards: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := "INSERT INTO cards (word, category, active) VALUES (?, ?, " + db.Dialect.BoolValue(true) + ")"
	for _, w := range sampleWords {
		if _, err := db.Exec(query, w.word, w.category); err != nil {
			return fmt.Errorf("failed to seed word %q: %w", w.word, err)
		}
	}

	return nil
}
