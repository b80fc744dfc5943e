// Package jsondocument contains the logic for rendering a JSON document in a Fyne tree.
package jsondocument

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"unicode/utf8"

	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// RootUID is the UID of the node representing the whole document.
// It is the only child of the tree root "".
const RootUID widget.TreeNodeID = "$"

const (
	// Update progress after x added nodes
	progressUpdateTickDefault = 10_000
	// Nodes up to this depth are expanded by default
	expandDepthDefault = 2
	// Strings longer than this are truncated in previews
	previewMaxLength = 100
)

var (
	ErrCallerCanceled = errors.New("caller canceled")
	ErrNotFound       = errors.New("not found")
)

// ProgressInfo reports the progress of loading a document.
type ProgressInfo struct {
	CurrentStep int
	Progress    float64
	Size        int
	TotalSteps  int
}

// Node is a node in the tree.
type Node struct {
	Key   string
	Value jsonvalue.Value
	Type  jsonvalue.Type
	Path  jsonvalue.Path
	Depth int
}

// IsRoot reports whether the node represents the whole document.
func (n Node) IsRoot() bool {
	return n.Path.IsRoot()
}

// Preview returns the value of a node as shown in the tree.
// Containers are shown as a summary when collapsed and not at all when expanded.
func (n Node) Preview(expanded bool) string {
	switch n.Type {
	case jsonvalue.Object:
		if expanded {
			return ""
		}
		c := n.Value.Len()
		if c == 1 {
			return "{ 1 property }"
		}
		return fmt.Sprintf("{ %d properties }", c)
	case jsonvalue.Array:
		if expanded {
			return ""
		}
		c := n.Value.Len()
		if c == 1 {
			return "[ 1 item ]"
		}
		return fmt.Sprintf("[ %d items ]", c)
	case jsonvalue.String:
		s, _ := n.Value.Str()
		if utf8.RuneCountInString(s) > previewMaxLength {
			s = string([]rune(s)[:previewMaxLength]) + "..."
		}
		return fmt.Sprintf("\"%s\"", s)
	}
	return n.Value.Text()
}

// Row is a visible node in a flattened tree.
type Row struct {
	UID         widget.TreeNodeID
	Node        Node
	IsBranch    bool
	IsExpanded  bool
	Highlighted bool
}

// JSONDocument represents a JSON document which can be rendered by a Fyne tree widget.
//
// The UID of each node is the string form of its path,
// which makes UIDs stable across edits that keep the path of a node.
type JSONDocument struct {
	// Update progress after x added nodes
	ProgressUpdateTick int

	mu         sync.RWMutex
	doc        jsonvalue.Value
	ids        map[widget.TreeNodeID][]widget.TreeNodeID
	parents    map[widget.TreeNodeID]widget.TreeNodeID
	values     map[widget.TreeNodeID]Node
	order      []widget.TreeNodeID
	n          int
	expanded   map[widget.TreeNodeID]bool
	highlights map[widget.TreeNodeID]bool
}

// New returns a new JSONDocument object.
func New() *JSONDocument {
	j := &JSONDocument{ProgressUpdateTick: progressUpdateTickDefault}
	j.Reset()
	return j
}

// Reset clears the document and all view state.
func (j *JSONDocument) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.install(newIndex(0))
	j.doc = jsonvalue.Value{}
	j.expanded = make(map[widget.TreeNodeID]bool)
	j.highlights = make(map[widget.TreeNodeID]bool)
}

// Load replaces the document and resets all view state.
// Progress is reported as [ProgressInfo] and canceling ctx aborts the load.
func (j *JSONDocument) Load(ctx context.Context, doc jsonvalue.Value, progress binding.Untyped) error {
	if ctx.Err() != nil {
		return ErrCallerCanceled
	}
	totalSteps := 2
	setProgress := func(step int, size int, p float64) {
		if progress == nil {
			return
		}
		info := ProgressInfo{CurrentStep: step, Size: size, TotalSteps: totalSteps, Progress: p}
		if err := progress.Set(info); err != nil {
			slog.Warn("Failed to set progress", "err", err)
		}
	}
	setProgress(1, 0, 0)
	var sizer JSONTreeSizer
	size := sizer.Calculate(doc)
	setProgress(2, size, 0)
	x := newIndex(size)
	tick := max(j.ProgressUpdateTick, 1)
	err := x.build(doc, func(n int) error {
		if n%tick != 0 {
			return nil
		}
		if ctx.Err() != nil {
			return ErrCallerCanceled
		}
		setProgress(2, size, float64(n)/float64(size))
		return nil
	})
	if err != nil {
		return err
	}
	setProgress(2, size, 1)
	j.mu.Lock()
	defer j.mu.Unlock()
	j.install(x)
	j.doc = doc
	j.expanded = make(map[widget.TreeNodeID]bool)
	j.highlights = make(map[widget.TreeNodeID]bool)
	slog.Info("Finished loading JSON document into tree", "size", x.n)
	return nil
}

// Set replaces the document after an edit.
// View state of nodes which still exist is kept.
func (j *JSONDocument) Set(doc jsonvalue.Value) {
	x := newIndex(0)
	_ = x.build(doc, nil)
	j.mu.Lock()
	defer j.mu.Unlock()
	j.install(x)
	j.doc = doc
	for uid := range j.expanded {
		if _, found := j.values[uid]; !found {
			delete(j.expanded, uid)
		}
	}
	for uid := range j.highlights {
		if _, found := j.values[uid]; !found {
			delete(j.highlights, uid)
		}
	}
}

// Document returns the current document.
func (j *JSONDocument) Document() jsonvalue.Value {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.doc
}

// ChildUIDs returns the child UIDs for a given node.
// This can be used directly in the tree widget childUIDs() function.
func (j *JSONDocument) ChildUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	if !j.mu.TryRLock() {
		// This method can be called by another goroutine from the Fyne library while a new tree is loaded.
		// This can not block, or it would block the whole Fyne app.
		return []widget.TreeNodeID{}
	}
	defer j.mu.RUnlock()
	return j.ids[uid]
}

// IsBranch reports whether a node is a branch.
// This can be used directly in the tree widget isBranch() function.
func (j *JSONDocument) IsBranch(uid widget.TreeNodeID) bool {
	if !j.mu.TryRLock() {
		return false
	}
	defer j.mu.RUnlock()
	_, found := j.ids[uid]
	return found
}

// Value returns the value of a node.
func (j *JSONDocument) Value(uid widget.TreeNodeID) Node {
	if !j.mu.TryRLock() {
		return Node{}
	}
	defer j.mu.RUnlock()
	return j.values[uid]
}

// Node returns the node for uid and reports whether it exists.
func (j *JSONDocument) Node(uid widget.TreeNodeID) (Node, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n, ok := j.values[uid]
	return n, ok
}

// UID returns the UID of the node at path p.
func UID(p jsonvalue.Path) widget.TreeNodeID {
	return p.String()
}

// Path returns the UIDs of all ancestors of a node, starting with the root.
func (j *JSONDocument) Path(uid widget.TreeNodeID) []widget.TreeNodeID {
	j.mu.RLock()
	defer j.mu.RUnlock()
	path := make([]widget.TreeNodeID, 0)
	for {
		uid = j.parents[uid]
		if uid == "" {
			break
		}
		path = append(path, uid)
	}
	slices.Reverse(path)
	return path
}

// Size returns the number of nodes below the root.
func (j *JSONDocument) Size() int {
	if !j.mu.TryRLock() {
		return 0
	}
	defer j.mu.RUnlock()
	return j.n
}

// Extract returns the JSON text of a node indented by two spaces.
func (j *JSONDocument) Extract(uid widget.TreeNodeID) ([]byte, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	node, found := j.values[uid]
	if !found {
		return nil, ErrNotFound
	}
	return jsonvalue.MarshalIndent(node.Value)
}

// IsExpanded reports whether a branch is expanded.
// Nodes are expanded by default when they are less than two levels deep.
func (j *JSONDocument) IsExpanded(uid widget.TreeNodeID) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.isExpanded(uid)
}

func (j *JSONDocument) isExpanded(uid widget.TreeNodeID) bool {
	if _, found := j.ids[uid]; !found {
		return false
	}
	if x, found := j.expanded[uid]; found {
		return x
	}
	return j.values[uid].Depth < expandDepthDefault
}

// SetExpanded sets the expand state of a branch.
func (j *JSONDocument) SetExpanded(uid widget.TreeNodeID, expanded bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, found := j.ids[uid]; !found {
		return
	}
	j.expanded[uid] = expanded
}

// Toggle switches the expand state of a branch and returns the new state.
func (j *JSONDocument) Toggle(uid widget.TreeNodeID) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, found := j.ids[uid]; !found {
		return false
	}
	x := !j.isExpanded(uid)
	j.expanded[uid] = x
	return x
}

// SetAllExpanded expands or collapses all branches.
func (j *JSONDocument) SetAllExpanded(expanded bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for uid := range j.ids {
		if uid == "" {
			continue
		}
		j.expanded[uid] = expanded
	}
}

// ExpandedUIDs returns all expanded branches in document order.
func (j *JSONDocument) ExpandedUIDs() []widget.TreeNodeID {
	j.mu.RLock()
	defer j.mu.RUnlock()
	uids := make([]widget.TreeNodeID, 0)
	for _, uid := range j.order {
		if j.isExpanded(uid) {
			uids = append(uids, uid)
		}
	}
	return uids
}

// SetHighlights replaces the highlighted nodes.
func (j *JSONDocument) SetHighlights(paths []jsonvalue.Path) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.highlights = make(map[widget.TreeNodeID]bool)
	for _, p := range paths {
		uid := UID(p)
		if _, found := j.values[uid]; found {
			j.highlights[uid] = true
		}
	}
}

// IsHighlighted reports whether a node is highlighted.
func (j *JSONDocument) IsHighlighted(uid widget.TreeNodeID) bool {
	if !j.mu.TryRLock() {
		return false
	}
	defer j.mu.RUnlock()
	return j.highlights[uid]
}

// HighlightCount returns the number of highlighted nodes.
func (j *JSONDocument) HighlightCount() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.highlights)
}

// NextHighlight returns the next highlighted node after uid in document order.
// The search wraps around at the end. An empty uid starts at the top.
func (j *JSONDocument) NextHighlight(uid widget.TreeNodeID) (widget.TreeNodeID, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if len(j.highlights) == 0 {
		return "", ErrNotFound
	}
	start := slices.Index(j.order, uid) + 1
	for i := range len(j.order) {
		x := j.order[(start+i)%len(j.order)]
		if j.highlights[x] {
			return x, nil
		}
	}
	return "", ErrNotFound
}

// Rows returns the visible nodes in display order, respecting the expand state.
func (j *JSONDocument) Rows() []Row {
	j.mu.RLock()
	defer j.mu.RUnlock()
	rows := make([]Row, 0)
	var add func(uid widget.TreeNodeID)
	add = func(uid widget.TreeNodeID) {
		_, isBranch := j.ids[uid]
		r := Row{
			UID:         uid,
			Node:        j.values[uid],
			IsBranch:    isBranch,
			IsExpanded:  j.isExpanded(uid),
			Highlighted: j.highlights[uid],
		}
		rows = append(rows, r)
		if !r.IsExpanded {
			return
		}
		for _, c := range j.ids[uid] {
			add(c)
		}
	}
	if _, found := j.values[RootUID]; found {
		add(RootUID)
	}
	return rows
}

func (j *JSONDocument) install(x *index) {
	j.ids = x.ids
	j.parents = x.parents
	j.values = x.values
	j.order = x.order
	j.n = x.n
}

// index maps UIDs to the nodes of a document.
type index struct {
	ids     map[widget.TreeNodeID][]widget.TreeNodeID
	parents map[widget.TreeNodeID]widget.TreeNodeID
	values  map[widget.TreeNodeID]Node
	order   []widget.TreeNodeID
	n       int
}

func newIndex(size int) *index {
	x := &index{
		ids:     make(map[widget.TreeNodeID][]widget.TreeNodeID),
		parents: make(map[widget.TreeNodeID]widget.TreeNodeID),
		values:  make(map[widget.TreeNodeID]Node, size+1),
		order:   make([]widget.TreeNodeID, 0, size+1),
	}
	return x
}

// build adds all nodes of doc to the index.
// When given, added is called after each node and aborts the build when it returns an error.
func (x *index) build(doc jsonvalue.Value, added func(n int) error) error {
	x.addNode("", "$", jsonvalue.Root, doc)
	var err error
	jsonvalue.Walk(doc, func(p jsonvalue.Path, v jsonvalue.Value) bool {
		if err != nil {
			return false
		}
		if p.IsRoot() {
			return true
		}
		s, _ := p.Last()
		x.addNode(UID(p.Parent()), s.Name(), p, v)
		x.n++
		if added != nil {
			err = added(x.n)
		}
		return err == nil
	})
	return err
}

// addNode adds a node to the index.
// Nodes will be rendered in the same order they are added.
func (x *index) addNode(parentUID widget.TreeNodeID, key string, p jsonvalue.Path, v jsonvalue.Value) {
	uid := UID(p)
	if _, found := x.values[uid]; found {
		panic(fmt.Sprintf("UID for this node already exists: %v", uid))
	}
	x.ids[parentUID] = append(x.ids[parentUID], uid)
	x.parents[uid] = parentUID
	x.values[uid] = Node{Key: key, Value: v, Type: v.Type(), Path: p, Depth: p.Depth()}
	x.order = append(x.order, uid)
}
