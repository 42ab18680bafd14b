package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
)

// CSVParser handles mind maps flattened to a table: each row is a
// root-to-leaf path with one column per depth. Rows sharing a prefix
// merge into one branch; a blank cell repeats the row above at that depth.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	root := &outline.Node{}
	var prev []string
	for _, row := range records {
		path := fillDown(trimRow(row), prev)
		if len(path) == 0 {
			continue
		}
		insertPath(root, path, prev)
		prev = path
	}

	// A single shared first column is the central topic.
	if len(root.Children) == 1 {
		root = root.Children[0]
	}
	return singleSheet(filename, root), nil
}

// trimRow drops trailing blank cells.
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := range out {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}

// fillDown replaces leading blank cells with the cells of the previous row.
func fillDown(row, prev []string) []string {
	for i := range row {
		if row[i] != "" {
			break
		}
		if i >= len(prev) {
			return nil
		}
		row[i] = prev[i]
	}
	return row
}

// insertPath appends path under root, reusing the previous row's branch
// for the shared prefix so that repeated siblings stay distinct.
func insertPath(root *outline.Node, path, prev []string) {
	shared := 0
	for shared < len(path) && shared < len(prev) && path[shared] == prev[shared] {
		shared++
	}
	// A row identical to its predecessor still yields a new leaf.
	if shared == len(path) {
		shared = len(path) - 1
	}
	node := root
	for i := 0; i < shared; i++ {
		node = node.Children[len(node.Children)-1]
	}
	for _, cell := range path[shared:] {
		node = node.Add(cell)
	}
}
