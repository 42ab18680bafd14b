package topic

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
)

// MalformedTopicError reports a label that starts with a reserved keyword
// but has no colon after it.
type MalformedTopicError struct {
	Label string
}

func (e *MalformedTopicError) Error() string {
	return fmt.Sprintf("topic %q is malformed: missing colon after tag", e.Label)
}

// Validate walks the tree in pre-order and returns a *MalformedTopicError
// for the first offending label. Untagged containers are legal.
func Validate(root *outline.Node, tags TagSet) error {
	if root == nil {
		return nil
	}
	keywords := tags.Names()
	stack := []*outline.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if malformed(n.Title, keywords) {
			return &MalformedTopicError{Label: normalize(n.Title)}
		}

		// Push in reverse so the leftmost child is visited first.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

func malformed(label string, keywords []string) bool {
	label = normalize(label)
	if strings.Contains(label, ":") {
		return false
	}
	for _, kw := range keywords {
		if strings.HasPrefix(label, kw) {
			return true
		}
	}
	return false
}
