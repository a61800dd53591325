package tracker

import (
	"fmt"
	"strings"

	"github.com/gorewood/standup/internal/sheet"
)

// Preview renders a numbered, human-readable description of a change set.
func Preview(changes []sheet.Change) string {
	if len(changes) == 0 {
		return "No changes to make."
	}

	var b strings.Builder
	b.WriteString("PREVIEW OF CHANGES TO GOOGLE SHEETS:\n\n")
	for i, c := range changes {
		fmt.Fprintf(&b, "%d. ACTION: %s\n", i+1, strings.ToUpper(string(c.Action)))
		if c.IsUpdate() {
			fmt.Fprintf(&b, "   Updating Row %d\n", c.RowID)
		} else {
			b.WriteString("   Creating New Row\n")
		}

		d := c.Data
		effort := "N/A"
		if d.Effort > 0 {
			effort = d.Effort.String() + " days"
		}
		reasoning := c.Reasoning
		if reasoning == "" {
			reasoning = "No reasoning provided"
		}
		fmt.Fprintf(&b, "   Workstream: %s\n", orNA(d.Workstream))
		fmt.Fprintf(&b, "   Task: %s\n", orNA(d.Task))
		fmt.Fprintf(&b, "   Sub Task: %s\n", orNA(d.SubTask))
		fmt.Fprintf(&b, "   Status: %s\n", orNA(d.Status))
		fmt.Fprintf(&b, "   Effort: %s\n", effort)
		fmt.Fprintf(&b, "   Priority: %s\n", orNA(d.Priority))
		fmt.Fprintf(&b, "   Tags: %s\n", orNA(d.Tags))
		fmt.Fprintf(&b, "   Reasoning: %s\n\n", reasoning)
	}
	return b.String()
}

// Summarize is the short chat-style reply shown after classification.
func Summarize(changes []sheet.Change) string {
	if len(changes) == 0 {
		return "I couldn't identify specific changes from your update. Please be more specific about " +
			"what you completed, what's in progress, or what's upcoming."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Analysis Complete!** I found %d change(s) for your sheet.\n\n**Summary:**\n", len(changes))
	for i, c := range changes {
		task := c.Data.Task
		if task == "" {
			task = "Unknown task"
		}
		status := c.Data.Status
		if status == "" {
			status = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s: *%s* → **%s**\n", i+1, titleCase(string(c.Action)), task, status)
	}
	b.WriteString("\nReview the changes below and choose to apply or reject them.")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
