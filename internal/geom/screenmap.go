package geom

import (
	"sort"

	"github.com/bnema/fluxwl/internal/logger"
)

// Output is one physical head known to the layout: its full box and the
// usable box left after struts (toolbar, slit, panels) are subtracted.
type Output struct {
	Name   string
	Box    Box
	Usable Box
	// Enabled outputs participate in the screen map; disabled ones are
	// skipped but keep their slot in the owning list.
	Enabled bool
}

// UsableBox returns the strut-adjusted box, falling back to the full box
// when no struts have been reported yet.
func (o *Output) UsableBox() Box {
	if o.Usable.Empty() {
		return o.Box
	}
	return o.Usable
}

// ScreenMap assigns stable head indices to outputs. Heads are numbered by
// sorting on (x, y, name) so the leftmost output is head 0 regardless of
// the order outputs were announced in.
type ScreenMap struct {
	outputs []*Output
}

// NewScreenMap builds a map over the given outputs.
func NewScreenMap(outputs []*Output) *ScreenMap {
	return &ScreenMap{outputs: outputs}
}

func (m *ScreenMap) sorted() []*Output {
	var entries []*Output
	for _, o := range m.outputs {
		if o == nil || !o.Enabled || o.Box.Empty() {
			continue
		}
		entries = append(entries, o)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Box.X != b.Box.X {
			return a.Box.X < b.Box.X
		}
		if a.Box.Y != b.Box.Y {
			return a.Box.Y < b.Box.Y
		}
		return a.Name < b.Name
	})
	return entries
}

// Count returns the number of active heads.
func (m *ScreenMap) Count() int {
	return len(m.sorted())
}

// OutputForScreen returns the output backing head index screen. Out-of-range
// indices fall back to head 0; a nil return means no output is active.
func (m *ScreenMap) OutputForScreen(screen int) *Output {
	entries := m.sorted()
	if len(entries) == 0 {
		return nil
	}
	if screen < 0 || screen >= len(entries) {
		screen = 0
	}
	return entries[screen]
}

// ScreenForOutput returns the head index of the given output.
func (m *ScreenMap) ScreenForOutput(out *Output) (int, bool) {
	if out == nil {
		return 0, false
	}
	for i, o := range m.sorted() {
		if o == out {
			return i, true
		}
	}
	return 0, false
}

// OutputAt returns the output whose full box contains (x, y), or nil.
func (m *ScreenMap) OutputAt(x, y int) *Output {
	for _, o := range m.sorted() {
		if o.Box.Contains(x, y) {
			return o
		}
	}
	return nil
}

// ScreenAt returns the head index under (x, y); head 0 when the point is
// outside every output.
func (m *ScreenMap) ScreenAt(x, y int) int {
	if out := m.OutputAt(x, y); out != nil {
		if idx, ok := m.ScreenForOutput(out); ok {
			return idx
		}
	}
	return 0
}

// OutputForView returns the output that should host a view whose content
// origin is at (x, y): the output under the top-left corner, else head 0.
func (m *ScreenMap) OutputForView(x, y int) *Output {
	if out := m.OutputAt(x+1, y+1); out != nil {
		return out
	}
	return m.OutputForScreen(0)
}

// Log dumps the current head table at info level.
func (m *ScreenMap) Log(why string) {
	entries := m.sorted()
	logger.Infof("ScreenMap: reason=%s screens=%d", why, len(entries))
	for i, o := range entries {
		name := o.Name
		if name == "" {
			name = "(unnamed)"
		}
		logger.Infof("ScreenMap: screen%d name=%s x=%d y=%d w=%d h=%d",
			i, name, o.Box.X, o.Box.Y, o.Box.Width, o.Box.Height)
	}
}
