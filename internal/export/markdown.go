package export

import (
	"fmt"
	"os"

	"github.com/gorewood/standup/internal/output"
)

// FormatMarkdown prefixes the guide body with its title as a level-1 heading.
func FormatMarkdown(title, md string) string {
	return fmt.Sprintf("# %s\n\n%s", title, md)
}

// WriteMarkdown writes FormatMarkdown's output to path.
func WriteMarkdown(path, title, md string) error {
	if err := os.WriteFile(path, []byte(FormatMarkdown(title, md)), 0o600); err != nil {
		return output.NewSystemErrorWithCause("failed to write "+path, err)
	}
	return nil
}
