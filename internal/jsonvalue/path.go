package jsonvalue

import (
	"slices"
	"strconv"
	"strings"
)

// Segment is one step of a path: either an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment for navigating into an object.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns a segment for navigating into an array.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Key returns the key of a key segment.
func (s Segment) Key() string {
	return s.key
}

// Index returns the index of an index segment.
func (s Segment) Index() int {
	return s.index
}

// Name returns the name of a segment as shown in the tree,
// i.e. the key or the index as decimal number.
func (s Segment) Name() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	if isIdentifier(s.key) {
		return "." + s.key
	}
	return "[" + strconv.Quote(s.key) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Path addresses a node in a document, starting from the root.
// A path is only meaningful for the document snapshot it was created for.
type Path []Segment

// Root is the path of the document root.
var Root = Path{}

// NewPath returns a path from keys (string) and indexes (int).
// It panics on other element types.
func NewPath(elems ...any) Path {
	p := make(Path, len(elems))
	for i, e := range elems {
		switch x := e.(type) {
		case string:
			p[i] = Key(x)
		case int:
			p[i] = Index(x)
		default:
			panic("invalid path element")
		}
	}
	return p
}

// IsRoot reports whether p points to the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Child returns a new path extended by s. p itself is not modified.
func (p Path) Child(s Segment) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, s)
}

// Parent returns the path of the parent node. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Root
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the last segment and reports whether there is one.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	return len(p)
}

// ContainsKey reports whether a path contains a key segment with the given key.
func (p Path) ContainsKey(key string) bool {
	return slices.ContainsFunc(p, func(s Segment) bool {
		return !s.isIndex && s.key == key
	})
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return slices.Equal(p[:len(prefix)], prefix)
}

func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// String returns a unique textual representation, e.g. $.articles[0]["first name"].
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}
