package game

import "wordassoc/internal/models"

// Snapshot derives a user's completion state from the distinct card ids
// in their association log. It is a pure function of the configuration
// and the log, so callers recompute it on every request instead of
// caching a counter that could drift.
//
// In random mode there is no target: TotalRequired and CompletedCount
// stay nil and AllComplete is always false. In fixed-set mode only cards
// from the configured list count towards completion; cards played under
// an earlier random-mode configuration are ignored.
func Snapshot(cfg models.ModeConfig, completedCardIDs []int64) models.ProgressSnapshot {
	completed := make(map[int64]bool, len(completedCardIDs))
	for _, id := range completedCardIDs {
		completed[id] = true
	}

	snap := models.ProgressSnapshot{
		Mode:             cfg.Mode,
		CompletedCardIDs: completed,
	}

	if cfg.Mode != models.ModeFixedSet {
		return snap
	}

	done := 0
	for _, id := range cfg.SelectedWordIDs {
		if completed[id] {
			done++
		}
	}

	total := len(cfg.SelectedWordIDs)
	snap.TotalRequired = &total
	snap.CompletedCount = &done
	snap.AllComplete = done == total

	return snap
}
