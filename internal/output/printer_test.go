package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	err := printer.Success(map[string]any{
		"applied": 2,
		"failed":  0,
	})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["applied"] != float64(2) {
		t.Errorf("applied = %v, want 2", result["applied"])
	}
}

func TestPrinter_JSON_Error(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewParseError("model response held no JSON object", nil))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["error"] != "model response held no JSON object" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitParseFailure {
		t.Errorf("code = %v, want %d", result["code"], ExitParseFailure)
	}
}

func TestPrinter_Human_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"message": "Applied 3 changes"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Applied 3 changes") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Human_ErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	printer := NewPrinter(&out, false, false).WithStderr(&errOut)

	printer.Error(NewSystemErrorWithCause("writing guide", errors.New("disk full")))

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	got := errOut.String()
	if !strings.Contains(got, "Error") || !strings.Contains(got, "writing guide: disk full") {
		t.Errorf("stderr = %q", got)
	}
}

func TestPrinter_PlainErrorIsUserError(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(errors.New("text is required"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if int(result["code"].(float64)) != ExitUserError {
		t.Errorf("code = %v, want %d", result["code"], ExitUserError)
	}
}

func TestPrinter_PrintAndPrintln(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Print("Row %d", 4)
	printer.Println(":", "Backend")

	if buf.String() != "Row 4: Backend\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Warn(t *testing.T) {
	t.Run("human", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf, false, false).Warn("no sheet id, running in %s", "development mode")
		if !strings.Contains(buf.String(), "Warning: no sheet id, running in development mode") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf, true, false).Warn("dev mode")
		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if result["warning"] != "dev mode" {
			t.Errorf("warning = %v", result["warning"])
		}
	})
}

func TestPrinter_StderrSilentInJSON(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true, false).Stderr("classifying...\n")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table(
		[]string{"Row", "Task", "Status"},
		[][]string{
			{"1", "Login page", "Complete"},
			{"2", strings.Repeat("x", 60), "Upcoming"},
		},
	)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Row  Task") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "…") {
		t.Errorf("long cell should be truncated: %q", lines[2])
	}
}

func TestPrinter_StatusBadge_Plain(t *testing.T) {
	printer := NewPrinter(&bytes.Buffer{}, false, false)
	for _, s := range []string{"Complete", "In Progress", "Upcoming", "Blocked"} {
		if got := printer.StatusBadge(s); got != s {
			t.Errorf("StatusBadge(%q) = %q, want unstyled", s, got)
		}
	}
}

func TestPrinter_SectionAndKeyValue(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Section("Sheet")
	printer.KeyValue("Total rows", "12")

	want := "\nSheet\n─────\nTotal rows: 12\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Markdown_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Markdown("## Pros & Cons\n- fast")
	if buf.String() != "## Pros & Cons\n- fast\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Box_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Box("Preview", "1. ACTION: CREATE")
	if buf.String() != "Preview\n\n1. ACTION: CREATE\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestErrorJSON_Format(t *testing.T) {
	var parsed struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(ErrorJSON("bad", ExitSystemError), &parsed); err != nil {
		t.Fatalf("Failed to parse ErrorJSON output: %v", err)
	}
	if parsed.Error != "bad" || parsed.Code != ExitSystemError {
		t.Errorf("got %+v", parsed)
	}
}
