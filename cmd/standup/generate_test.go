package main

import (
	"encoding/json"
	"testing"

	"github.com/gorewood/standup/internal/output"
)

func TestGenerate(t *testing.T) {
	isolateEnv(t)
	llm := startFakeLLM(t, "Recursion is a function calling itself.")

	stdout, _, err := execute(t, "", "generate", "Explain recursion")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if stdout != "Recursion is a function calling itself.\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if llm.lastPrompt() != "Explain recursion" {
		t.Errorf("prompt = %q", llm.lastPrompt())
	}
}

func TestGenerate_StdinAndJSON(t *testing.T) {
	isolateEnv(t)
	llm := startFakeLLM(t, "done")

	stdout, _, err := execute(t, "some notes", "generate", "Summarize", "--json")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if result["content"] != "done" || result["provider"] != "local" || result["model"] != "local" {
		t.Errorf("result = %v", result)
	}
	if llm.lastPrompt() != "Summarize\n\nsome notes" {
		t.Errorf("prompt = %q", llm.lastPrompt())
	}
}

func TestGenerate_Clean(t *testing.T) {
	isolateEnv(t)
	startFakeLLM(t, "Sure, here is the note:\n\nv1.2 adds guide export.\n\nLet me know if you need changes.")

	stdout, _, err := execute(t, "", "generate", "Draft a release note", "--clean")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if stdout != "v1.2 adds guide export.\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestValidateGenerateFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   generateFlags
		wantErr bool
	}{
		{name: "defaults", flags: generateFlags{timeout: 120}},
		{name: "temperature too high", flags: generateFlags{temperature: 2.5, timeout: 120}, wantErr: true},
		{name: "negative temperature", flags: generateFlags{temperature: -1, timeout: 120}, wantErr: true},
		{name: "zero timeout", flags: generateFlags{}, wantErr: true},
		{name: "negative max tokens", flags: generateFlags{maxTokens: -1, timeout: 120}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGenerateFlags(tt.flags)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGenerateFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_Errors(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "", "generate")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("no prompt: exit code = %d", output.GetExitCode(err))
	}

	_, _, err = execute(t, "", "generate", "hi")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("no provider: exit code = %d", output.GetExitCode(err))
	}

	_, _, err = execute(t, "", "generate", "hi", "--model", "claude-haiku")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("model without key: exit code = %d", output.GetExitCode(err))
	}
}
