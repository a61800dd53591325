package prompt

import (
	"strings"
)

// Lead-in lines models put before the actual answer, matched
// case-insensitively against the start of a line.
var preamblePatterns = []string{
	"here is",
	"here's",
	"here are",
	"i'll ",
	"i will ",
	"i've ",
	"let me ",
	"sure,",
	"sure!",
	"okay,",
	"certainly",
	"of course",
	"based on",
	"after reviewing",
}

// Trailing offers of further help.
var signoffPatterns = []string{
	"let me know",
	"feel free to",
	"hope this helps",
	"is there anything",
	"would you like",
	"if you need",
	"if you'd like",
	"happy to help",
}

// finalAnswerPrefix is emitted by agent-style models before their result.
const finalAnswerPrefix = "final answer:"

// StripFinalAnswer removes a leading "Final answer:" marker and the
// whitespace after it. Everything else is returned unchanged.
func StripFinalAnswer(content string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if len(trimmed) >= len(finalAnswerPrefix) && strings.EqualFold(trimmed[:len(finalAnswerPrefix)], finalAnswerPrefix) {
		return strings.TrimLeft(trimmed[len(finalAnswerPrefix):], " \t")
	}
	return content
}

// SanitizeLLMOutput trims a "Final answer:" marker, chatty lead-in lines and
// sign-offs from raw model output.
func SanitizeLLMOutput(content string) string {
	content = strings.TrimSpace(StripFinalAnswer(content))
	if content == "" {
		return content
	}

	lines := strings.Split(content, "\n")

	// At most 3 leading lines are dropped so real content that happens to
	// start with "Based on" survives.
	start := 0
	for start < len(lines) && start < 3 {
		line := strings.TrimSpace(lines[start])
		if line != "" && !hasAnyPrefix(line, preamblePatterns) {
			break
		}
		start++
	}

	end := len(lines)
	for end > start {
		line := strings.TrimSpace(lines[end-1])
		if line != "" && !hasAnyPrefix(line, signoffPatterns) {
			break
		}
		end--
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func hasAnyPrefix(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
