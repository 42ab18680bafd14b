package topic

import (
	"fmt"
	"strings"
)

// Tag is a reserved keyword prefixing a topic label.
type Tag int

const (
	TagModule Tag = iota
	TagPath
	TagFunc
	TagTitle
	TagPre
	TagStep
	TagExp

	numTags
)

var tagNames = [numTags]string{
	TagModule: "module",
	TagPath:   "path",
	TagFunc:   "func",
	TagTitle:  "title",
	TagPre:    "pre",
	TagStep:   "step",
	TagExp:    "exp",
}

func (t Tag) String() string {
	if t < 0 || t >= numTags {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// ParseTag maps a keyword to its Tag.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return 0, false
}

// TagSet is the set of keywords recognized for one conversion.
type TagSet uint8

const (
	// FullTags recognizes every keyword, module included.
	FullTags TagSet = 1<<TagModule | 1<<TagPath | 1<<TagFunc | 1<<TagTitle | 1<<TagPre | 1<<TagStep | 1<<TagExp
	// FlatTags drops module; module-based classification is meaningless with it.
	FlatTags = FullTags &^ (1 << TagModule)
)

// NewTagSet builds a set from keywords. Unknown keywords are an error.
func NewTagSet(names ...string) (TagSet, error) {
	var s TagSet
	for _, name := range names {
		tag, ok := ParseTag(strings.TrimSpace(name))
		if !ok {
			return 0, fmt.Errorf("unknown tag %q", name)
		}
		s |= 1 << tag
	}
	return s, nil
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	return t >= 0 && t < numTags && s&(1<<t) != 0
}

// Tags lists members in declaration order.
func (s TagSet) Tags() []Tag {
	var out []Tag
	for t := Tag(0); t < numTags; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Names lists member keywords in declaration order.
func (s TagSet) Names() []string {
	var out []string
	for _, t := range s.Tags() {
		out = append(out, t.String())
	}
	return out
}

// Lexeme is the classification of a single label.
type Lexeme struct {
	HasTag bool
	Tag    Tag
	Text   string
}

// normalize replaces the full-width colon with its ASCII form.
func normalize(label string) string {
	return strings.ReplaceAll(label, "：", ":")
}

// Lex splits a label into tag and text. Labels without a colon, or whose
// segment before the first colon is not in tags, are untagged content.
func Lex(label string, tags TagSet) Lexeme {
	head, rest, found := strings.Cut(normalize(label), ":")
	if !found {
		return Lexeme{}
	}
	tag, ok := ParseTag(strings.TrimSpace(head))
	if !ok || !tags.Has(tag) {
		return Lexeme{}
	}
	return Lexeme{HasTag: true, Tag: tag, Text: strings.TrimSpace(rest)}
}
