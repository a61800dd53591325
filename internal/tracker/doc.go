// Package tracker turns free-text daily updates into proposed changes for the
// tracking sheet.
//
// Classify asks a language model for a change set; Validate fills the gaps a
// model tends to leave (dates, effort, priority) with fixed heuristics and
// drops changes without a task. Preview and Summarize render a change set for
// the confirmation step. Nothing here writes to the sheet.
package tracker
