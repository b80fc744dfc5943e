package locator

import "github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"

// EdgeTrigger reports paths that start matching.
// A path which keeps matching over several updates is reported only once.
type EdgeTrigger struct {
	previous map[string]bool
}

// Update records the currently matched paths and
// returns those which did not match on the previous update.
func (t *EdgeTrigger) Update(matched []jsonvalue.Path) []jsonvalue.Path {
	current := make(map[string]bool, len(matched))
	rising := make([]jsonvalue.Path, 0)
	for _, p := range matched {
		k := p.String()
		if current[k] {
			continue
		}
		current[k] = true
		if !t.previous[k] {
			rising = append(rising, p)
		}
	}
	t.previous = current
	return rising
}

// Reset forgets all previous matches.
func (t *EdgeTrigger) Reset() {
	t.previous = nil
}
