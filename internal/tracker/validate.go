package tracker

import (
	"strings"
	"time"

	"github.com/gorewood/standup/internal/sheet"
)

// Validator fills in missing fields of proposed changes.
type Validator struct {
	// Now is the reference time for inferred dates. Nil means time.Now.
	Now func() time.Time
}

// Validate returns the changes worth keeping, with gaps filled:
//
//   - a change without a Task is dropped;
//   - missing Start or End Date: both are inferred from Status and Task;
//   - missing Effort is estimated from Task;
//   - missing Priority becomes Medium;
//   - an update whose row is outside the snapshot becomes a create.
//
// The input slice is not modified.
func (v Validator) Validate(changes []sheet.Change, rows []sheet.Row) []sheet.Change {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	t := now()

	out := make([]sheet.Change, 0, len(changes))
	for _, c := range changes {
		if strings.TrimSpace(c.Data.Task) == "" {
			continue
		}

		if c.Data.StartDate == "" || c.Data.EndDate == "" {
			c.Data.StartDate, c.Data.EndDate = InferDates(c.Data.Task, c.Data.Status, t)
		}
		if c.Data.Effort == 0 {
			c.Data.Effort = EstimateEffort(c.Data.Task, c.Data.Task)
		}
		if c.Data.Priority == "" {
			c.Data.Priority = sheet.PriorityMedium
		}

		switch {
		case c.Action == sheet.ActionUpdate && int(c.RowID) > len(rows):
			c.Action, c.RowID = sheet.ActionCreate, 0
		case c.Action == sheet.ActionCreate:
			c.RowID = 0
		}
		out = append(out, c)
	}
	return out
}
