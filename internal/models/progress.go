package models

// ProgressSnapshot is a user's completion state derived from the
// association log. It is recomputed on every request, never cached, so
// it always reflects the latest persisted record.
//
// TotalRequired and CompletedCount are nil in random mode: there is no
// fixed target, and they serialize as JSON null so clients cannot
// mistake the absence of a target for a target of zero.
type ProgressSnapshot struct {
	Mode             SelectionMode  `json:"mode"`
	CompletedCardIDs map[int64]bool `json:"-"`
	TotalRequired    *int           `json:"total_words"`
	CompletedCount   *int           `json:"completed"`
	AllComplete      bool           `json:"all_complete"`
}
