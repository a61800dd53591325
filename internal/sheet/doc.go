// Package sheet reads and writes the project tracking spreadsheet.
//
// The sheet has a header row naming the columns in Columns; every following
// row is one task. Rows are addressed by their 1-based position among the
// data rows, so position 1 is spreadsheet row 2. Positions are only stable
// within a single read-modify-write cycle.
//
// A Manager works against a live Google spreadsheet when one is configured
// and falls back to a local CSV or XLSX file otherwise ("development mode").
// In development mode reads behave the same but writes are printed instead
// of persisted.
package sheet
