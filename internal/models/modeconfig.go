package models

// SelectionMode controls how the next prompt word is chosen.
type SelectionMode string

const (
	// ModeRandom presents an unlimited stream of uniformly sampled
	// active cards. Repeats are allowed.
	ModeRandom SelectionMode = "random"

	// ModeFixedSet presents a configured, ordered, finite list of cards
	// that each user works through exactly once.
	ModeFixedSet SelectionMode = "fixed_set"
)

// Valid reports whether the mode is one of the known selection modes.
func (m SelectionMode) Valid() bool {
	return m == ModeRandom || m == ModeFixedSet
}

// ModeConfig is the administrator-controlled selection policy. For
// ModeFixedSet the order of SelectedWordIDs is significant: it defines
// the sequence cards are presented in.
type ModeConfig struct {
	Mode            SelectionMode `json:"mode"`
	WordCount       int           `json:"word_count"`
	SelectedWordIDs []int64       `json:"selected_word_ids"`
}
