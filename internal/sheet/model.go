package sheet

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Column names, exactly as they appear in the header row.
const (
	ColWorkstream = "Workstream"
	ColTask       = "Task"
	ColSubTask    = "Sub Task"
	ColStartDate  = "Start Date"
	ColEndDate    = "End Date"
	ColEffort     = "Effort"
	ColStatus     = "Status"
	ColPriority   = "Priority"
	ColTags       = "Tags"
)

// Columns is the expected header row, in sheet order.
var Columns = []string{
	ColWorkstream, ColTask, ColSubTask, ColStartDate, ColEndDate,
	ColEffort, ColStatus, ColPriority, ColTags,
}

// Task statuses.
const (
	StatusComplete   = "Complete"
	StatusInProgress = "In Progress"
	StatusUpcoming   = "Upcoming"
	StatusOnHold     = "On Hold"
	StatusDeferred   = "Deferred"
)

// Priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// DateLayout is the MM/DD/YYYY format used for Start Date and End Date.
const DateLayout = "01/02/2006"

// Effort is a task size in person-days (8 hours = 1 day). Zero means the
// value is missing.
type Effort float64

// UnmarshalJSON accepts a number, a numeric string or null. Any other
// string is treated as missing rather than failing the whole change set.
func (e *Effort) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = ParseEffort(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*e = Effort(max(f, 0))
	return nil
}

// String formats the effort without trailing zeros ("0.5", "1").
func (e Effort) String() string {
	return strconv.FormatFloat(float64(e), 'f', -1, 64)
}

// ParseEffort reads a cell value. Unparseable or negative values are 0.
func ParseEffort(s string) Effort {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return Effort(f)
}

// Row is one task in the tracking sheet. JSON keys match the column names.
type Row struct {
	Workstream string `json:"Workstream,omitempty"`
	Task       string `json:"Task,omitempty"`
	SubTask    string `json:"Sub Task,omitempty"`
	StartDate  string `json:"Start Date,omitempty"`
	EndDate    string `json:"End Date,omitempty"`
	Effort     Effort `json:"Effort,omitempty"`
	Status     string `json:"Status,omitempty"`
	Priority   string `json:"Priority,omitempty"`
	Tags       string `json:"Tags,omitempty"`
}

// RowFromRecord builds a Row from a header-keyed record.
func RowFromRecord(rec map[string]string) Row {
	return Row{
		Workstream: strings.TrimSpace(rec[ColWorkstream]),
		Task:       strings.TrimSpace(rec[ColTask]),
		SubTask:    strings.TrimSpace(rec[ColSubTask]),
		StartDate:  strings.TrimSpace(rec[ColStartDate]),
		EndDate:    strings.TrimSpace(rec[ColEndDate]),
		Effort:     ParseEffort(rec[ColEffort]),
		Status:     strings.TrimSpace(rec[ColStatus]),
		Priority:   strings.TrimSpace(rec[ColPriority]),
		Tags:       strings.TrimSpace(rec[ColTags]),
	}
}

// Get returns the cell value for a column name, "" when empty or unknown.
func (r Row) Get(col string) string {
	switch col {
	case ColWorkstream:
		return r.Workstream
	case ColTask:
		return r.Task
	case ColSubTask:
		return r.SubTask
	case ColStartDate:
		return r.StartDate
	case ColEndDate:
		return r.EndDate
	case ColEffort:
		if r.Effort == 0 {
			return ""
		}
		return r.Effort.String()
	case ColStatus:
		return r.Status
	case ColPriority:
		return r.Priority
	case ColTags:
		return r.Tags
	}
	return ""
}

// Fields returns the non-empty cells keyed by column name.
func (r Row) Fields() map[string]string {
	out := make(map[string]string, len(Columns))
	for _, col := range Columns {
		if v := r.Get(col); v != "" {
			out[col] = v
		}
	}
	return out
}

// TagList splits the comma-separated Tags cell.
func (r Row) TagList() []string {
	var tags []string
	for t := range strings.SplitSeq(r.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
