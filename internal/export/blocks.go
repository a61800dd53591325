package export

import (
	"regexp"
	"strings"
)

// BlockKind classifies a markdown line.
type BlockKind int

// Block kinds.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
	BlockNumbered
)

// maxHeadingLevel is the deepest heading the document uses.
const maxHeadingLevel = 4

// Block is one non-blank markdown line.
type Block struct {
	Kind BlockKind
	// Level is the heading level; zero for other kinds.
	Level int
	// Text has the markdown prefix removed.
	Text string
}

var numberedRe = regexp.MustCompile(`^\d+\.\s`)

// ParseBlocks classifies each non-blank line of md.
func ParseBlocks(md string) []Block {
	var blocks []Block
	for line := range strings.SplitSeq(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		blocks = append(blocks, parseLine(line))
	}
	return blocks
}

func parseLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "#"):
		level := len(line) - len(strings.TrimLeft(line, "#"))
		return Block{
			Kind:  BlockHeading,
			Level: min(level, maxHeadingLevel),
			Text:  strings.TrimSpace(strings.TrimLeft(line, "# ")),
		}
	case strings.HasPrefix(line, "* "), strings.HasPrefix(line, "- "):
		return Block{Kind: BlockBullet, Text: line[2:]}
	case numberedRe.MatchString(line):
		return Block{Kind: BlockNumbered, Text: numberedRe.ReplaceAllString(line, "")}
	default:
		return Block{Kind: BlockParagraph, Text: line}
	}
}
