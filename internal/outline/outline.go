package outline

import "fmt"

// Workbook is the root of a parsed mind-map file.
type Workbook struct {
	Title  string   // File title (from metadata or filename)
	Sheets []*Sheet // Sheets in source order
}

// Sheet is one canvas of a mind map, rooted at its central topic.
type Sheet struct {
	Title string
	Root  *Node
}

// Node is a recursive topic in the mind map.
type Node struct {
	Title    string  // Topic label, free text
	Children []*Node // Subtopics in display order
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Add appends a child topic and returns it.
func (n *Node) Add(title string) *Node {
	child := &Node{Title: title}
	n.Children = append(n.Children, child)
	return child
}

// SheetNotFoundError is returned when a requested sheet title is absent.
type SheetNotFoundError struct {
	Name string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found", e.Name)
}

// FindSheet returns the first sheet titled name. An empty name selects
// the first sheet of the workbook.
func (w *Workbook) FindSheet(name string) (*Sheet, error) {
	if name == "" {
		if len(w.Sheets) == 0 {
			return nil, &SheetNotFoundError{Name: name}
		}
		return w.Sheets[0], nil
	}
	for _, s := range w.Sheets {
		if s.Title == name {
			return s, nil
		}
	}
	return nil, &SheetNotFoundError{Name: name}
}

// SheetTitles lists sheet titles in source order.
func (w *Workbook) SheetTitles() []string {
	titles := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		titles = append(titles, s.Title)
	}
	return titles
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, top.Children...)
	}
	return total
}
