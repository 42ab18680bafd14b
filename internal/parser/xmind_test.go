package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildArchive(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

const contentJSON = `[
  {
    "id": "s1",
    "class": "sheet",
    "title": "Sheet 1",
    "rootTopic": {
      "id": "r",
      "title": "Suite",
      "children": {
        "attached": [
          {"id": "m", "title": "module:Login", "children": {"attached": [
            {"id": "t", "title": "title:Can log in", "children": {"attached": [
              {"id": "e1", "title": "exp:sees dashboard"},
              {"id": "e2", "title": "exp:redirect logged"}
            ]}}
          ]}}
        ],
        "detached": [{"id": "f", "title": "floating note"}]
      }
    }
  },
  {"id": "s2", "class": "sheet", "title": "Other", "rootTopic": {"id": "r2", "title": "Empty"}}
]`

func TestXMindParser_ContentJSON(t *testing.T) {
	p := &XMindParser{}
	wb, err := p.Parse(buildArchive(t, map[string]string{"content.json": contentJSON}), "cases.xmind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wb.Title != "cases" {
		t.Errorf("expected title %q, got %q", "cases", wb.Title)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(wb.Sheets))
	}

	root := wb.Sheets[0].Root
	if root.Title != "Suite" {
		t.Errorf("expected root %q, got %q", "Suite", root.Title)
	}
	// Detached topics are dropped.
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 attached child, got %d", len(root.Children))
	}
	title := root.Children[0].Children[0]
	if title.Title != "title:Can log in" || len(title.Children) != 2 {
		t.Errorf("unexpected title node %+v", title)
	}
	if title.Children[1].Title != "exp:redirect logged" {
		t.Errorf("expected sibling order preserved, got %q", title.Children[1].Title)
	}

	other, err := wb.FindSheet("Other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !other.Root.IsLeaf() {
		t.Error("expected empty sheet root to be a leaf")
	}
}

const contentXML = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<xmap-content xmlns="urn:xmind:xmap:xmlns:content:2.0" version="2.0">
  <sheet id="s1">
    <topic id="r">
      <title>Suite</title>
      <children>
        <topics type="attached">
          <topic id="a"><title>title:first</title>
            <children><topics type="attached"><topic id="b"><title>exp:ok</title></topic></topics></children>
          </topic>
        </topics>
        <topics type="detached">
          <topic id="d"><title>floating</title></topic>
        </topics>
      </children>
    </topic>
    <title>Legacy</title>
  </sheet>
</xmap-content>`

func TestXMindParser_LegacyXML(t *testing.T) {
	p := &XMindParser{}
	wb, err := p.Parse(buildArchive(t, map[string]string{"content.xml": contentXML}), "old.xmind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := wb.FindSheet("Legacy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Root.Title != "Suite" {
		t.Errorf("expected root %q, got %q", "Suite", s.Root.Title)
	}
	if len(s.Root.Children) != 1 {
		t.Fatalf("expected 1 attached child, got %d", len(s.Root.Children))
	}
	if s.Root.Children[0].Children[0].Title != "exp:ok" {
		t.Errorf("unexpected leaf %q", s.Root.Children[0].Children[0].Title)
	}
}

func TestXMindParser_PrefersJSON(t *testing.T) {
	p := &XMindParser{}
	wb, err := p.Parse(buildArchive(t, map[string]string{
		"content.json": contentJSON,
		"content.xml":  contentXML,
	}), "both.xmind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wb.Sheets[0].Title != "Sheet 1" {
		t.Errorf("expected json content, got sheet %q", wb.Sheets[0].Title)
	}
}

func TestXMindParser_MissingContent(t *testing.T) {
	p := &XMindParser{}
	_, err := p.Parse(buildArchive(t, map[string]string{"manifest.json": "{}"}), "x.xmind")
	if !errors.Is(err, errNoContent) {
		t.Errorf("expected errNoContent, got %v", err)
	}
}

func TestXMindParser_NotAZip(t *testing.T) {
	p := &XMindParser{}
	if _, err := p.Parse(bytes.NewReader([]byte("plain text")), "x.xmind"); err == nil {
		t.Error("expected error for non-zip input")
	}
}

func TestXMindParser_InvalidJSON(t *testing.T) {
	p := &XMindParser{}
	_, err := p.Parse(buildArchive(t, map[string]string{"content.json": "{broken"}), "x.xmind")
	if err == nil {
		t.Error("expected error for invalid json")
	}
}
