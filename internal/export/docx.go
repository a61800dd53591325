package export

import (
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/gorewood/standup/internal/output"
)

// Paragraph styles from the default Word template.
const (
	styleBullet   = "List Bullet"
	styleNumbered = "List Number"
)

// documentBuilder is the subset of a Word document writer BuildDocument uses.
type documentBuilder interface {
	Heading(text string, level int) error
	Paragraph(style string, runs []Run)
}

// BuildDocument adds the title (level 0) and the converted markdown to b.
func BuildDocument(b documentBuilder, title, md string) error {
	if err := b.Heading(title, 0); err != nil {
		return err
	}
	for _, blk := range ParseBlocks(md) {
		switch blk.Kind {
		case BlockHeading:
			if blk.Text == "" {
				continue
			}
			if err := b.Heading(blk.Text, blk.Level); err != nil {
				return err
			}
		case BlockBullet:
			b.Paragraph(styleBullet, SplitBold(blk.Text))
		case BlockNumbered:
			b.Paragraph(styleNumbered, SplitBold(blk.Text))
		default:
			b.Paragraph("", SplitBold(blk.Text))
		}
	}
	return nil
}

// wordDocument adapts a godocx document to documentBuilder.
type wordDocument struct {
	doc *docx.RootDoc
}

func (w wordDocument) Heading(text string, level int) error {
	_, err := w.doc.AddHeading(text, uint(level))
	return err
}

func (w wordDocument) Paragraph(style string, runs []Run) {
	p := w.doc.AddParagraph("")
	if style != "" {
		p.Style(style)
	}
	for _, r := range runs {
		run := p.AddText(r.Text)
		if r.Bold {
			run.Bold(true)
		}
	}
}

// WriteDocx converts md to a Word document at path.
func WriteDocx(path, title, md string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to create document", err)
	}
	if err := BuildDocument(wordDocument{doc: doc}, title, md); err != nil {
		return output.NewSystemErrorWithCause("failed to build document", err)
	}
	if err := doc.SaveTo(path); err != nil {
		return output.NewSystemErrorWithCause("failed to write "+path, err)
	}
	return nil
}
