package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
)

// TextParser handles indented plain-text outlines. Deeper indentation
// nests a line under the previous shallower one; a tab counts as four
// spaces and leading "- ", "* " or "+ " bullets are dropped.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	root := &outline.Node{}
	stack := newLevelStack(root)
	topLevel := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent, label := splitIndent(line)
		if indent == 0 {
			topLevel++
		}
		stack.push(label, indent+1)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// A lone top-level line is the central topic.
	if topLevel == 1 && len(root.Children) == 1 {
		root = root.Children[0]
	}
	return singleSheet(filename, root), nil
}

func splitIndent(line string) (int, string) {
	width := 0
	i := 0
loop:
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			break loop
		}
	}
	label := line[i:]
	for _, bullet := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(label, bullet) {
			label = strings.TrimSpace(label[len(bullet):])
			break
		}
	}
	return width, label
}
