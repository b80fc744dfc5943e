package jsondocument

import "github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"

// JSONTreeSizer allows the quick sizing of a tree structure.
type JSONTreeSizer struct {
	count int
}

// Calculate returns the number of nodes below the root of a document.
func (t *JSONTreeSizer) Calculate(v jsonvalue.Value) int {
	t.count = 0
	t.addChildren(v)
	return t.count
}

func (t *JSONTreeSizer) addChildren(v jsonvalue.Value) {
	switch v.Type() {
	case jsonvalue.Object:
		for _, m := range v.Members() {
			t.addValue(m.Value)
		}
	case jsonvalue.Array:
		for _, x := range v.Items() {
			t.addValue(x)
		}
	}
}

func (t *JSONTreeSizer) addValue(v jsonvalue.Value) {
	t.count++
	t.addChildren(v)
}
