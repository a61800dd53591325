package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// Render substitutes {{key}} placeholders with vars. A placeholder with no
// matching variable is an error, so a customised template that expects data
// the caller doesn't provide fails loudly instead of sending a broken prompt.
func Render(tmpl *Template, vars map[string]string) (string, error) {
	var missing []string
	result := placeholderRe.ReplaceAllStringFunc(tmpl.Content, func(m string) string {
		key := m[2 : len(m)-2]
		val, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return val
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("template %s: no value for %s", tmpl.Name, strings.Join(missing, ", "))
	}
	return result, nil
}
