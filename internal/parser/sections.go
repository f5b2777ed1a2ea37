// Package parser reads the heading structure of TDD markdown artifacts.
//
// Behavior records and the backlog are plain markdown files that humans edit
// by hand. The parser uses goldmark to find headings the same way a markdown
// renderer would, so fenced code blocks containing "## Status" never count as
// a section, and exposes each section as a range of source lines.
package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is a heading and the lines that follow it up to the next heading
// of the same or higher level
type Section struct {
	Level int
	Title string
	// HeadingLine is the 0-based line index of the heading itself
	HeadingLine int
	// EndLine is the exclusive 0-based line index where the section ends
	EndLine int
}

// Document is a parsed markdown file
type Document struct {
	Lines    []string
	Sections []Section
}

// MarkdownParser wraps a goldmark instance configured for artifact files
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a parser with goldmark's default CommonMark rules
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// Parse splits content into lines and collects its top-level headings
func (p *MarkdownParser) Parse(content []byte) *Document {
	doc := &Document{
		Lines: strings.Split(string(content), "\n"),
	}

	root := p.markdown.Parser().Parse(text.NewReader(content))

	var open []int // indexes into doc.Sections still waiting for an end line
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}

		line, ok := headingLine(heading, content)
		if !ok {
			continue
		}

		// Close every open section at the same or deeper level
		kept := open[:0]
		for _, idx := range open {
			if doc.Sections[idx].Level >= heading.Level {
				doc.Sections[idx].EndLine = line
				continue
			}
			kept = append(kept, idx)
		}
		open = kept

		section := Section{
			Level:       heading.Level,
			Title:       strings.TrimSpace(extractText(heading, content)),
			HeadingLine: line,
			EndLine:     len(doc.Lines),
		}
		doc.Sections = append(doc.Sections, section)
		open = append(open, len(doc.Sections)-1)
	}

	return doc
}

// Find returns the first section with the given level and title
func (d *Document) Find(level int, title string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Level == level && s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Body returns the lines of a section after its heading
func (d *Document) Body(s Section) []string {
	start := s.HeadingLine + 1
	if start > len(d.Lines) {
		start = len(d.Lines)
	}
	end := s.EndLine
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	if end < start {
		end = start
	}
	return d.Lines[start:end]
}

// FirstLine returns the first non-blank line of a section body, trimmed.
// It is "" when the heading is followed directly by another heading.
func (d *Document) FirstLine(s Section) string {
	for _, line := range d.Body(s) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// headingLine returns the 0-based source line of a heading.
// Empty headings ("##") carry no text segment and are reported as not found.
func headingLine(heading *ast.Heading, source []byte) (int, bool) {
	lines := heading.Lines()
	if lines.Len() == 0 {
		return 0, false
	}
	return bytes.Count(source[:lines.At(0).Start], []byte("\n")), true
}

// extractText concatenates the text segments of a node's inline children
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(extractText(c, source))
		}
	}
	return buf.String()
}
