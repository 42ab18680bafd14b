package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
)

// Parser converts raw mind-map bytes into an outline.Workbook.
type Parser interface {
	Parse(r io.Reader, filename string) (*outline.Workbook, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".xmind":    true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xmind":
		return &XMindParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle strips directory and extension from a filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// singleSheet wraps one root node into a workbook named after the file.
func singleSheet(filename string, root *outline.Node) *outline.Workbook {
	title := baseTitle(filename)
	if root.Title == "" {
		root.Title = title
	}
	return &outline.Workbook{
		Title:  title,
		Sheets: []*outline.Sheet{{Title: title, Root: root}},
	}
}

// levelStack nests nodes by numeric level, the way heading hierarchies work.
type levelStack struct {
	entries []levelEntry
}

type levelEntry struct {
	node  *outline.Node
	level int
}

func newLevelStack(root *outline.Node) *levelStack {
	return &levelStack{entries: []levelEntry{{node: root, level: 0}}}
}

// push attaches a node titled title at level and makes it current.
func (s *levelStack) push(title string, level int) *outline.Node {
	// Pop until we find a parent with lower level.
	for len(s.entries) > 1 && s.entries[len(s.entries)-1].level >= level {
		s.entries = s.entries[:len(s.entries)-1]
	}
	parent := s.entries[len(s.entries)-1].node
	n := parent.Add(title)
	s.entries = append(s.entries, levelEntry{node: n, level: level})
	return n
}

// top returns the current node.
func (s *levelStack) top() *outline.Node {
	return s.entries[len(s.entries)-1].node
}

// level returns the level of the current node.
func (s *levelStack) level() int {
	return s.entries[len(s.entries)-1].level
}
