// Package progress derives display values from a goal's server-supplied
// progress. Everything here is a pure function; period boundaries and
// completion flags stay server-owned.
package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

// Percent returns min(round(completions/target*100), 100). The data model
// guarantees target >= 1; anything lower is floored to 1 so a bad payload
// can never divide by zero.
func Percent(completions, target int) int {
	if target < 1 {
		target = 1
	}
	if completions < 0 {
		completions = 0
	}
	pct := int(math.Round(float64(completions) / float64(target) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Remaining is the number of check-ins left this period, floored at zero.
func Remaining(completions, target int) int {
	if target < 1 {
		target = 1
	}
	if completions >= target {
		return 0
	}
	return target - completions
}

// NeedsInput reports whether a check-in for this value type requires extra
// input (a value or note) before submission, i.e. a detailed check-in.
func NeedsInput(v model.ValueType) bool {
	return v != model.ValueTypeNone
}

// ParseValue converts free-form numeric input. Empty input, conversion
// failures, NaN, and infinities are all treated as an absent value so they
// never reach the wire.
func ParseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Bar renders a fixed-width text progress bar for pct in [0, 100].
func Bar(pct, width int) string {
	if width < 1 {
		width = 1
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Split partitions dashboard goals into pending and completed, preserving
// order within each group.
func Split(goals []model.GoalWithProgress) (pending, completed []model.GoalWithProgress) {
	for _, g := range goals {
		if g.IsCompleted {
			completed = append(completed, g)
		} else {
			pending = append(pending, g)
		}
	}
	return pending, completed
}
