package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/mapcase/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser reads the document outline (bookmarks) of a PDF, which is how
// mind-map tools embed the topic tree in PDF exports.
type PDFParser struct{}

var errNoOutline = errors.New("pdf has no outline")

func (p *PDFParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	bookmarks := reader.Outline()
	if len(bookmarks.Child) == 0 {
		return nil, errNoOutline
	}

	root := &outline.Node{Title: bookmarks.Title}
	// A single top-level bookmark is the central topic.
	children := bookmarks.Child
	if len(children) == 1 {
		root.Title = children[0].Title
		children = children[0].Child
	}
	for _, c := range children {
		root.Children = append(root.Children, pdfNode(c))
	}
	return singleSheet(filename, root), nil
}

func pdfNode(o pdflib.Outline) *outline.Node {
	n := &outline.Node{Title: o.Title}
	for _, c := range o.Child {
		n.Children = append(n.Children, pdfNode(c))
	}
	return n
}
