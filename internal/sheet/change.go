package sheet

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Action is what a Change does to the sheet.
type Action string

// Change actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// UnmarshalText normalises case and whitespace ("Update " → "update").
func (a *Action) UnmarshalText(text []byte) error {
	*a = Action(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// RowRef is a 1-based row position. Zero means "no row".
type RowRef int

// UnmarshalJSON accepts a number, a numeric string or null. Non-numeric
// strings (such as a model echoing the prompt's placeholder) mean no row.
func (r *RowRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = 0
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			*r = RowRef(n)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f > 0 && f == math.Trunc(f) {
		*r = RowRef(int(f))
	}
	return nil
}

// MarshalJSON writes null for no row.
func (r RowRef) MarshalJSON() ([]byte, error) {
	if r <= 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

// Change is one proposed edit to the sheet.
type Change struct {
	Action    Action `json:"action"`
	RowID     RowRef `json:"row_id"`
	Data      Row    `json:"data"`
	Reasoning string `json:"reasoning,omitempty"`
}

// IsUpdate reports whether the change targets an existing row.
func (c Change) IsUpdate() bool {
	return c.Action == ActionUpdate && c.RowID > 0
}
