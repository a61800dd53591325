package export

import (
	"fmt"
	"strings"

	"github.com/gorewood/standup/internal/output"
)

// Output formats.
const (
	FormatDocx = "docx"
	FormatMD   = "md"
)

// Formats lists the accepted format names.
var Formats = []string{FormatDocx, FormatMD}

// Render writes the guide to base + "." + format and returns that path.
func Render(title, md, base, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	path := base + "." + format
	switch format {
	case FormatMD:
		return path, WriteMarkdown(path, title, md)
	case FormatDocx:
		return path, WriteDocx(path, title, md)
	default:
		return "", output.NewUserError(fmt.Sprintf("unsupported format %q (use docx or md)", format))
	}
}
