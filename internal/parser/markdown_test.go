package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsAndLists(t *testing.T) {
	input := `# Suite

## module:Login

- title:Can log in
  - step:enter creds
    - exp:sees dashboard
  - exp:redirect logged

## module:Logout

exp:loose paragraph
`
	p := &MarkdownParser{}
	wb, err := p.Parse(strings.NewReader(input), "cases.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(wb.Sheets))
	}

	root := wb.Sheets[0].Root
	if root.Title != "Suite" || wb.Sheets[0].Title != "Suite" {
		t.Errorf("expected sheet and root %q, got %q / %q", "Suite", wb.Sheets[0].Title, root.Title)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(root.Children))
	}

	login := root.Children[0]
	if login.Title != "module:Login" {
		t.Errorf("expected %q, got %q", "module:Login", login.Title)
	}
	if len(login.Children) != 1 {
		t.Fatalf("expected 1 list item under Login, got %d", len(login.Children))
	}
	title := login.Children[0]
	if title.Title != "title:Can log in" || len(title.Children) != 2 {
		t.Fatalf("unexpected title node %q with %d children", title.Title, len(title.Children))
	}
	if title.Children[0].Children[0].Title != "exp:sees dashboard" {
		t.Errorf("unexpected nested item %q", title.Children[0].Children[0].Title)
	}

	logout := root.Children[1]
	if len(logout.Children) != 1 || logout.Children[0].Title != "exp:loose paragraph" {
		t.Errorf("unexpected Logout children %+v", logout.Children)
	}
}

func TestMarkdownParser_EachH1IsASheet(t *testing.T) {
	input := "# First\n\n- a\n\n# Second\n\n- b\n"
	p := &MarkdownParser{}
	wb, err := p.Parse(strings.NewReader(input), "multi.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := wb.SheetTitles()
	if len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Errorf("unexpected sheets %v", got)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "- title:a\n  - exp:b\n"
	p := &MarkdownParser{}
	wb, err := p.Parse(strings.NewReader(input), "plain.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(wb.Sheets))
	}
	s := wb.Sheets[0]
	if s.Title != "plain" || s.Root.Title != "plain" {
		t.Errorf("expected sheet titled by file, got %q / %q", s.Title, s.Root.Title)
	}
	if len(s.Root.Children) != 1 || s.Root.Children[0].Children[0].Title != "exp:b" {
		t.Errorf("unexpected tree under root")
	}
}

func TestMarkdownParser_PreambleKeptBeforeH1(t *testing.T) {
	input := "- title:intro\n\n# Main\n\n- title:x\n"
	p := &MarkdownParser{}
	wb, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := wb.SheetTitles()
	if len(got) != 2 || got[0] != "doc" || got[1] != "Main" {
		t.Errorf("unexpected sheets %v", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	wb, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wb.Sheets) != 1 || !wb.Sheets[0].Root.IsLeaf() {
		t.Errorf("expected one empty sheet")
	}
}
