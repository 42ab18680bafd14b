package topic

import (
	"strings"

	"github.com/dgallion1/mapcase/internal/outline"
)

const (
	fieldSep  = "-"
	recordSep = "\n"
)

// Options configures one aggregation.
type Options struct {
	Tags      TagSet // Recognized keywords
	RootLabel string // Prefixed to every path when non-empty
	Classify  bool   // Bucket records by module
}

// Record is one assembled test case.
type Record struct {
	Module string `json:"module,omitempty"`
	Path   string `json:"path"`
	Func   string `json:"func"`
	Title  string `json:"title"`
	Pre    string `json:"pre"`
	Step   string `json:"step"`
	Exp    string `json:"exp"`
}

// Group holds the records of one module, paths scoped to the module.
type Group struct {
	Module  string   `json:"module"`
	Records []Record `json:"records"`
}

// Result is the output of Aggregate.
type Result struct {
	Records []Record `json:"records"`
	Groups  []Group  `json:"groups,omitempty"`

	groupIndex map[string]int
}

// Len returns the number of flat records.
func (r *Result) Len() int {
	return len(r.Records)
}

// Group returns the group for module, if any record was classified into it.
func (r *Result) Group(module string) (Group, bool) {
	i, ok := r.groupIndex[module]
	if !ok {
		return Group{}, false
	}
	return r.Groups[i], true
}

// identity is the key under which leaves merge into one record.
type identity struct {
	module string
	path   string
	fn     string
	title  string
}

// position locates a record in the flat list and, when classified, in its group.
type position struct {
	flat  int
	group int
	slot  int
}

// accumulator holds the values open along the current root-to-node path.
type accumulator [numTags][]string

func (a *accumulator) push(t Tag, v string) { a[t] = append(a[t], v) }
func (a *accumulator) pop(t Tag)            { a[t] = a[t][:len(a[t])-1] }
func (a *accumulator) join(t Tag) string    { return strings.Join(a[t], fieldSep) }

func (a *accumulator) empty() bool {
	for _, v := range a {
		if len(v) != 0 {
			return false
		}
	}
	return true
}

// frame is one level of the explicit traversal stack.
type frame struct {
	node   *outline.Node
	lex    Lexeme
	cursor int // next child to visit
}

// Aggregate validates the tree, then walks it depth-first and assembles a
// record at every leaf whose path carries a title. Leaves sharing an
// identity extend the first record's Exp instead of adding a new one.
func Aggregate(root *outline.Node, opts Options) (*Result, error) {
	if err := Validate(root, opts.Tags); err != nil {
		return nil, err
	}
	a := newAggregator(opts)
	if root != nil {
		a.walk(root)
	}
	return a.result, nil
}

type aggregator struct {
	opts   Options
	acc    accumulator
	index  map[identity]position
	result *Result
}

func newAggregator(opts Options) *aggregator {
	res := &Result{Records: []Record{}}
	if opts.Classify {
		res.Groups = []Group{}
		res.groupIndex = make(map[string]int)
	}
	return &aggregator{
		opts:   opts,
		index:  make(map[identity]position),
		result: res,
	}
}

func (a *aggregator) walk(root *outline.Node) {
	stack := []frame{a.enter(root)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.cursor < len(top.node.Children) {
			child := top.node.Children[top.cursor]
			top.cursor++
			stack = append(stack, a.enter(child))
			continue
		}
		if top.node.IsLeaf() {
			a.pathEnd()
		}
		a.leave(*top)
		stack = stack[:len(stack)-1]
	}
}

func (a *aggregator) enter(n *outline.Node) frame {
	lex := Lex(n.Title, a.opts.Tags)
	if lex.HasTag {
		a.acc.push(lex.Tag, lex.Text)
	}
	return frame{node: n, lex: lex}
}

func (a *aggregator) leave(f frame) {
	if f.lex.HasTag {
		a.acc.pop(f.lex.Tag)
	}
}

func (a *aggregator) pathEnd() {
	if len(a.acc[TagTitle]) == 0 {
		return
	}

	module := a.acc.join(TagModule)
	scoped := a.acc.join(TagPath)
	var segments []string
	if a.opts.RootLabel != "" {
		segments = append(segments, a.opts.RootLabel)
	}
	if a.opts.Tags.Has(TagModule) {
		segments = append(segments, module)
	}
	segments = append(segments, scoped)

	rec := Record{
		Path:  strings.Join(segments, fieldSep),
		Func:  a.acc.join(TagFunc),
		Title: a.acc.join(TagTitle),
		Pre:   a.acc.join(TagPre),
		Step:  a.acc.join(TagStep),
		Exp:   a.acc.join(TagExp),
	}
	if a.opts.Tags.Has(TagModule) {
		rec.Module = module
	}

	key := identity{path: rec.Path, fn: rec.Func, title: rec.Title}
	if a.opts.Classify {
		key.module = module
	}

	if pos, ok := a.index[key]; ok {
		a.result.Records[pos.flat].Exp += recordSep + rec.Exp
		if a.opts.Classify {
			g := &a.result.Groups[pos.group]
			g.Records[pos.slot].Exp += recordSep + rec.Exp
		}
		return
	}

	pos := position{flat: len(a.result.Records)}
	a.result.Records = append(a.result.Records, rec)
	if a.opts.Classify {
		gi, ok := a.result.groupIndex[module]
		if !ok {
			gi = len(a.result.Groups)
			a.result.Groups = append(a.result.Groups, Group{Module: module})
			a.result.groupIndex[module] = gi
		}
		local := rec
		local.Path = scoped
		g := &a.result.Groups[gi]
		pos.group = gi
		pos.slot = len(g.Records)
		g.Records = append(g.Records, local)
	}
	a.index[key] = pos
}
