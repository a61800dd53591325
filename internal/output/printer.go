package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes command results either as JSON or as styled text.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	isTTY  bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Border  lipgloss.Color

	// Task status colors used by StatusBadge.
	Complete   lipgloss.Style
	InProgress lipgloss.Style
	Upcoming   lipgloss.Style
}

func colorStyles() *Styles {
	return &Styles{
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bold:       lipgloss.NewStyle().Bold(true),
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:      lipgloss.NewStyle().Faint(true),
		Key:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Border:     lipgloss.Color("8"),
		Complete:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		InProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Upcoming:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error: plain, Success: plain, Warning: plain, Bold: plain,
		Title: plain, Muted: plain, Key: plain, Border: lipgloss.Color(""),
		Complete: plain, InProgress: plain, Upcoming: plain,
	}
}

// NewPrinter creates a Printer. Colors are only used when isTTY is true.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := plainStyles()
	if isTTY {
		styles = colorStyles()
	}
	return &Printer{
		w:      writer,
		errW:   writer,
		json:   jsonMode,
		isTTY:  isTTY,
		styles: styles,
	}
}

// WithStderr sets a separate writer for human-mode errors, warnings and
// prompts. JSON mode keeps everything on the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON reports whether the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// IsTTY reports whether styled output is enabled.
func (p *Printer) IsTTY() bool {
	return p.isTTY
}

// Success outputs a result map. Human mode prints the "message" key when
// present and falls back to key: value lines.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.WriteJSON(data)
	}

	if msg, ok := data["message"].(string); ok {
		mustWrite(fmt.Fprintln(p.w, p.styles.Success.Render(msg)))
		return nil
	}

	for key, val := range data {
		mustWrite(fmt.Fprintf(p.w, "%s: %v\n", p.styles.Bold.Render(key), val))
	}
	return nil
}

// Error outputs an error, as {"error": ..., "code": N} in JSON mode.
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitUserError, Message: err.Error()}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}

	msg := exitErr.Message
	if exitErr.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, exitErr.Cause)
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), msg))
}

// Warn outputs a warning.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), msg))
}

// Stderr writes a status hint to the error writer. No-op in JSON mode.
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	mustWrite(fmt.Fprintf(p.errW, format, args...))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// WriteJSON encodes data as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns {"error": message, "code": N} as bytes.
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{
		"error": message,
		"code":  code,
	})
	return result
}

// mustWrite panics on a failed write to stdout, stderr or a buffer.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
