package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown outlines using goldmark. Headings build
// the hierarchy, nested list items nest under the current heading and
// every level-1 heading opens a new sheet.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	wb := &outline.Workbook{Title: baseTitle(filename)}
	preamble := &outline.Sheet{Title: wb.Title, Root: &outline.Node{Title: wb.Title}}
	sheet := preamble
	stack := newLevelStack(sheet.Root)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.Join(inlineLines(node, src), " ")
			if node.Level == 1 {
				sheet = &outline.Sheet{Title: title, Root: &outline.Node{Title: title}}
				wb.Sheets = append(wb.Sheets, sheet)
				stack = newLevelStack(sheet.Root)
				stack.entries[0].level = 1
				continue
			}
			stack.push(title, node.Level)

		case *ast.List:
			addList(stack.top(), node, src)

		default:
			// Loose paragraphs contribute one topic per line.
			for _, line := range inlineLines(n, src) {
				stack.top().Add(line)
			}
		}
	}

	// Content before the first level-1 heading forms its own sheet.
	if len(preamble.Root.Children) > 0 || len(wb.Sheets) == 0 {
		wb.Sheets = append([]*outline.Sheet{preamble}, wb.Sheets...)
	}
	return wb, nil
}

// addList attaches each list item under parent, recursing into sublists.
func addList(parent *outline.Node, list *ast.List, src []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var node *outline.Node
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				if node == nil {
					node = parent.Add("")
				}
				addList(node, sub, src)
				continue
			}
			lines := inlineLines(c, src)
			if len(lines) == 0 {
				continue
			}
			if node == nil {
				node = parent.Add(lines[0])
				lines = lines[1:]
			}
			for _, line := range lines {
				node.Add(line)
			}
		}
	}
}

// inlineLines collects the inline text of a block, split at line breaks.
func inlineLines(n ast.Node, src []byte) []string {
	var lines []string
	var buf strings.Builder
	flush := func() {
		if t := strings.TrimSpace(buf.String()); t != "" {
			lines = append(lines, t)
		}
		buf.Reset()
	}

	if n.Kind() == ast.KindFencedCodeBlock || n.Kind() == ast.KindCodeBlock {
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			buf.Write(seg.Value(src))
			flush()
		}
		return lines
	}

	var walk func(ast.Node)
	walk = func(c ast.Node) {
		for ; c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					flush()
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c.FirstChild())
			}
		}
	}
	walk(n.FirstChild())
	flush()
	return lines
}
