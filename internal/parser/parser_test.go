package parser

import (
	"fmt"
	"testing"

	"github.com/dgallion1/mapcase/internal/outline"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"map.xmind", "*parser.XMindParser"},
		{"MAP.XMIND", "*parser.XMindParser"},
		{"notes.txt", "*parser.TextParser"},
		{"readme.md", "*parser.MarkdownParser"},
		{"readme.markdown", "*parser.MarkdownParser"},
		{"flat.csv", "*parser.CSVParser"},
		{"export.html", "*parser.HTMLParser"},
		{"export.htm", "*parser.HTMLParser"},
		{"export.pdf", "*parser.PDFParser"},
		{"outline.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported extension", tt.filename)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("sheet.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("sheet.xlsx") {
		t.Error("expected xlsx to be unsupported")
	}
}

func TestLevelStack(t *testing.T) {
	wb := singleSheet("x.txt", &outline.Node{})
	s := newLevelStack(wb.Sheets[0].Root)
	s.push("h1", 1)
	s.push("h2", 2)
	s.push("h2b", 2)
	s.push("h1b", 1)
	root := wb.Sheets[0].Root
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(root.Children))
	}
	if len(root.Children[0].Children) != 2 {
		t.Errorf("expected 2 level-2 nodes, got %d", len(root.Children[0].Children))
	}
	if s.level() != 1 || s.top().Title != "h1b" {
		t.Errorf("unexpected top %q at level %d", s.top().Title, s.level())
	}
}
