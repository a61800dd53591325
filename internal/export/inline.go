package export

import "strings"

const boldMarker = "**"

// Run is a span of text with uniform weight.
type Run struct {
	Text string
	Bold bool
}

// SplitBold splits text on ** markers into alternating plain and bold runs,
// scanning left to right. Empty runs are dropped. A trailing marker without
// a partner is kept as literal text.
func SplitBold(text string) []Run {
	var runs []Run
	add := func(s string, bold bool) {
		if s != "" {
			runs = append(runs, Run{Text: s, Bold: bold})
		}
	}

	for {
		open := strings.Index(text, boldMarker)
		if open < 0 {
			break
		}
		rest := text[open+len(boldMarker):]
		end := strings.Index(rest, boldMarker)
		if end < 0 {
			break
		}
		add(text[:open], false)
		add(rest[:end], true)
		text = rest[end+len(boldMarker):]
	}
	add(text, false)
	return runs
}
