package monitor

import "time"

// WithinCooldown reports whether now still falls inside the debounce window
// opened at last. A zero last means the window never opened.
func WithinCooldown(last, now time.Time, interval time.Duration) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) <= interval
}
