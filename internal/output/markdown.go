package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown prints a markdown document. On a TTY it is rendered with glamour;
// otherwise, or if rendering fails, the raw text is written.
func (p *Printer) Markdown(md string) {
	if p.isTTY {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, rerr := r.Render(md); rerr == nil {
				mustWrite(fmt.Fprint(p.w, rendered))
				return
			}
		}
	}
	mustWrite(fmt.Fprintln(p.w, md))
}
