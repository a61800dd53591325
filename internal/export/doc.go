// Package export writes generated guides to disk.
//
// Two formats are supported:
//
//   - md: the title as a level-1 heading followed by the model's markdown,
//     unchanged.
//   - docx: a Word document built from a deliberately small markdown subset.
//
// # DOCX conversion
//
// The markdown is read line by line. Each trimmed line is one of:
//
//	## Heading          heading, level = number of '#' (capped at 4)
//	* item / - item     bulleted list item
//	1. item             numbered list item
//	anything else       paragraph
//	(blank)             skipped
//
// Inside list items and paragraphs, text between ** markers is bold. No other
// inline markdown (italics, links, code spans) is interpreted; those
// characters are written as-is.
//
// # File naming
//
// Render takes a base path and appends the format's extension:
//
//	export.Render(title, md, "docker_guide", export.FormatDocx) // docker_guide.docx
package export
