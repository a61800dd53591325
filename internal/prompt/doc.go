// Package prompt loads the prompt templates sent to the language model and
// renders their {{placeholders}}.
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	name: daily-update
//	description: Classify free-text updates into sheet changes
//	version: 2
//	temperature: 0.1
//	---
//	...prompt body with {{update_text}}...
//
// A template named X is resolved from .standup/templates/X.md, then
// <config dir>/templates/X.md, then the built-in copy compiled into the binary.
package prompt
