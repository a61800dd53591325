package prompt

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var builtinFS embed.FS

func loadBuiltin(name string) (*Template, error) {
	path := "templates/" + name + ".md"
	data, err := builtinFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading builtin template %s: %w", path, err)
	}
	return parseTemplate(name, string(data))
}

func listBuiltins() []TemplateInfo {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil
	}

	var templates []TemplateInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		tmpl, err := loadBuiltin(name)
		if err != nil {
			continue
		}
		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      "built-in",
		})
	}
	return templates
}
