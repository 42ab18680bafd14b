package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/mapcase/internal/outline"
	"github.com/tidwall/gjson"
)

// XMindParser handles .xmind archives. XMind Zen and later store the map
// in content.json; XMind 8 uses content.xml.
type XMindParser struct{}

var errNoContent = errors.New("xmind archive has no content.json or content.xml")

func (p *XMindParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xmind archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	wb := &outline.Workbook{Title: baseTitle(filename)}
	switch {
	case files["content.json"] != nil:
		raw, err := readZipFile(files["content.json"])
		if err != nil {
			return nil, err
		}
		wb.Sheets, err = parseContentJSON(raw)
		if err != nil {
			return nil, err
		}
	case files["content.xml"] != nil:
		raw, err := readZipFile(files["content.xml"])
		if err != nil {
			return nil, err
		}
		wb.Sheets, err = parseContentXML(raw)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errNoContent
	}
	return wb, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

func parseContentJSON(raw []byte) ([]*outline.Sheet, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("parse content.json: invalid json")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, errors.New("parse content.json: expected an array of sheets")
	}

	var sheets []*outline.Sheet
	for _, s := range doc.Array() {
		root := s.Get("rootTopic")
		if !root.Exists() {
			continue
		}
		sheets = append(sheets, &outline.Sheet{
			Title: s.Get("title").String(),
			Root:  jsonTopic(root),
		})
	}
	return sheets, nil
}

// jsonTopic converts a topic and its attached subtopics. Detached
// (floating) topics are not part of the tree.
func jsonTopic(t gjson.Result) *outline.Node {
	n := &outline.Node{Title: t.Get("title").String()}
	for _, child := range t.Get("children.attached").Array() {
		n.Children = append(n.Children, jsonTopic(child))
	}
	return n
}

type xmlContent struct {
	Sheets []xmlSheet `xml:"sheet"`
}

type xmlSheet struct {
	Title string   `xml:"title"`
	Topic xmlTopic `xml:"topic"`
}

type xmlTopic struct {
	Title    string `xml:"title"`
	Children struct {
		Topics []struct {
			Type   string     `xml:"type,attr"`
			Topics []xmlTopic `xml:"topic"`
		} `xml:"topics"`
	} `xml:"children"`
}

func parseContentXML(raw []byte) ([]*outline.Sheet, error) {
	var content xmlContent
	if err := xml.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("parse content.xml: %w", err)
	}
	sheets := make([]*outline.Sheet, 0, len(content.Sheets))
	for _, s := range content.Sheets {
		sheets = append(sheets, &outline.Sheet{
			Title: s.Title,
			Root:  xmlNode(s.Topic),
		})
	}
	return sheets, nil
}

func xmlNode(t xmlTopic) *outline.Node {
	n := &outline.Node{Title: t.Title}
	for _, group := range t.Children.Topics {
		if group.Type != "" && group.Type != "attached" {
			continue
		}
		for _, child := range group.Topics {
			n.Children = append(n.Children, xmlNode(child))
		}
	}
	return n
}
