package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/standup/internal/config"
)

// Built-in template names.
const (
	DailyUpdate  = "daily-update"
	InstallGuide = "install-guide"
)

// Template represents a prompt template with metadata and content.
type Template struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Version     int     `yaml:"version,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`

	// Content is the body after the frontmatter.
	Content string `yaml:"-"`

	// Source is "project", "global" or "built-in".
	Source string `yaml:"-"`
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"`
}

// LoadTemplate finds and loads a template by name.
// Resolution order: project-local → user global → built-in
func LoadTemplate(name string) (*Template, error) {
	if tmpl, err := loadFromPath(projectTemplatesDir(), name); err == nil {
		tmpl.Source = "project"
		return tmpl, nil
	}

	if tmpl, err := loadFromPath(globalTemplatesDir(), name); err == nil {
		tmpl.Source = "global"
		return tmpl, nil
	}

	if tmpl, err := loadBuiltin(name); err == nil {
		tmpl.Source = "built-in"
		return tmpl, nil
	}

	return nil, fmt.Errorf("template %q not found", name)
}

// ListTemplates returns every available template. A built-in shadowed by a
// project or global file is reported on the overriding entry.
func ListTemplates() []TemplateInfo {
	seen := make(map[string]int)
	var templates []TemplateInfo

	for _, src := range []struct{ name, dir string }{
		{"project", projectTemplatesDir()},
		{"global", globalTemplatesDir()},
	} {
		for _, info := range listFromPath(src.dir, src.name) {
			if _, exists := seen[info.Name]; !exists {
				seen[info.Name] = len(templates)
				templates = append(templates, info)
			}
		}
	}

	for _, info := range listBuiltins() {
		if idx, exists := seen[info.Name]; exists {
			templates[idx].Overrides = "built-in"
			continue
		}
		templates = append(templates, info)
	}

	return templates
}

func projectTemplatesDir() string {
	return filepath.Join(".standup", "templates")
}

func globalTemplatesDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	path := filepath.Join(dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	return parseTemplate(name, string(data))
}

func listFromPath(dir, source string) []TemplateInfo {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var templates []TemplateInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		tmpl, err := loadFromPath(dir, name)
		if err != nil {
			continue
		}
		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}
	return templates
}

// parseTemplate parses raw content with optional YAML frontmatter. The file
// name is used when the frontmatter has no name.
func parseTemplate(name, raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	if tmpl.Name == "" {
		tmpl.Name = name
	}

	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter delimited by --- lines from
// the content.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	before, after, ok := strings.Cut(raw[3:], "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}
