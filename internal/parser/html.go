package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML outlines: nested <ul>/<ol> lists, optionally
// sectioned by <h1>-<h6> headings, as exported by most mind-map tools.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*outline.Workbook, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	root := &outline.Node{Title: baseTitle(filename)}
	if title := findTitle(doc); title != "" {
		root.Title = title
	}
	stack := newLevelStack(root)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				stack.push(textContent(n), level)
				return // Don't recurse into heading children (already extracted text).
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "ul", "ol":
				addHTMLList(stack.top(), n)
				return
			case "p", "blockquote":
				if t := textContent(n); t != "" {
					stack.top().Add(t)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return singleSheet(filename, root), nil
}

// addHTMLList attaches each <li> under parent. Text directly inside the
// item is its label; nested lists become its children.
func addHTMLList(parent *outline.Node, list *html.Node) {
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		node := parent.Add(ownText(li))
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				addHTMLList(node, c)
			}
		}
	}
}

// ownText returns the text of n excluding nested lists.
func ownText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				buf.WriteString(c.Data)
			case c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol"):
			default:
				extract(c)
			}
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
