package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gorewood/standup/internal/sheet"
)

// ErrNoChanges is wrapped by a ParseError when the decoded object has no
// "changes" key.
var ErrNoChanges = errors.New(`response has no "changes" key`)

// ParseError reports a model response that could not be turned into a change
// set. Raw holds the response text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "parsing model response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// objectRe spans the first '{' to the last '}'.
var objectRe = regexp.MustCompile(`(?s)\{.*\}`)

// stripFences removes a surrounding ```json or ``` code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseChanges decodes a model response of the form {"changes": [...]},
// tolerating code fences and prose around the object.
func ParseChanges(raw string) ([]sheet.Change, error) {
	body := objectRe.FindString(stripFences(raw))
	if body == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("no JSON object found")}
	}

	var envelope struct {
		Changes json.RawMessage `json:"changes"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("decoding JSON: %w", err)}
	}
	if envelope.Changes == nil {
		return nil, &ParseError{Raw: raw, Err: ErrNoChanges}
	}

	var changes []sheet.Change
	if err := json.Unmarshal(envelope.Changes, &changes); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("decoding changes: %w", err)}
	}
	return changes, nil
}
