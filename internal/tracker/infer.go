package tracker

import (
	"strings"
	"time"

	"github.com/gorewood/standup/internal/sheet"
)

// InferDates derives Start and End Date (MM/DD/YYYY) from the status and the
// task description, relative to now. An empty status counts as Upcoming.
func InferDates(description, status string, now time.Time) (start, end string) {
	var from, to time.Time
	switch status {
	case sheet.StatusComplete:
		to = now
		switch {
		case containsAny(description, "research", "analysis", "study"):
			from = days(now, -3)
		case containsAny(description, "implement", "build", "create", "develop"):
			from = days(now, -5)
		default:
			from = days(now, -1)
		}
	case sheet.StatusInProgress:
		from, to = days(now, -1), days(now, 2)
	case sheet.StatusUpcoming, "":
		from, to = days(now, 1), days(now, 5)
	default:
		from, to = now, days(now, 7)
	}
	return from.Format(sheet.DateLayout), to.Format(sheet.DateLayout)
}

// days moves now by n calendar days in its own location.
func days(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, n)
}

// EstimateEffort sizes a task in person-days from keywords in its
// description, overridden by duration phrases in the surrounding context.
// The result is never above one day.
func EstimateEffort(description, context string) sheet.Effort {
	effort := 0.5
	if containsAny(description, "complex", "advanced", "comprehensive") {
		effort *= 2
	}
	switch {
	case containsAny(description, "research", "analysis"):
		effort *= 1.5
	case containsAny(description, "implement", "build", "develop"):
		effort *= 2
	case containsAny(description, "review", "check", "read"):
		effort *= 0.5
	}

	switch {
	case containsAny(context, "all day"):
		effort = 1.0
	case containsAny(context, "few hours"):
		effort = 0.25
	case containsAny(context, "morning", "afternoon"):
		effort = 0.5
	}
	return sheet.Effort(min(effort, 1.0))
}

// containsAny is a case-insensitive substring match.
func containsAny(s string, words ...string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
