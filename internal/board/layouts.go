package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultLayout is the layout used when none is configured.
const DefaultLayout = "english"

// ErrUnknownLayout is returned by Layout for names with no built-in board.
var ErrUnknownLayout = errors.New("unknown layout")

// layoutTemplates holds the built-in board templates.
var layoutTemplates = map[string][]string{
	// Classic 33-hole cross, goal in the center.
	"english": {
		"  ...  ",
		"  ...  ",
		".......",
		"...,...",
		".......",
		"  ...  ",
		"  ...  ",
	},
	// 37-hole French board.
	"european": {
		"  ...  ",
		" ..... ",
		".......",
		"...,...",
		".......",
		" ..... ",
		"  ...  ",
	},
	// 25-hole arrow with the goal left of center.
	"arrow": {
		"     . ",
		"    ...",
		"...... ",
		"....,  ",
		"...... ",
		"    ...",
		"     . ",
	},
	// Small 13-hole diamond, quick to solve exhaustively.
	"diamond": {
		"  .  ",
		" ... ",
		"..,..",
		" ... ",
		"  .  ",
	},
}

var (
	layoutMu    sync.Mutex
	layoutCache = make(map[string]*Geometry)
)

// Layouts returns the names of the built-in layouts, sorted.
func Layouts() []string {
	names := make([]string, 0, len(layoutTemplates))
	for name := range layoutTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layout returns the geometry of a built-in layout. Geometries are built
// once and shared.
func Layout(name string) (*Geometry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	tmpl, ok := layoutTemplates[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownLayout, name, strings.Join(Layouts(), ", "))
	}

	layoutMu.Lock()
	defer layoutMu.Unlock()
	if g, ok := layoutCache[name]; ok {
		return g, nil
	}
	g := MustParseTemplate(tmpl)
	layoutCache[name] = g
	return g, nil
}

// Render draws the state on the template grid: 'o' for a peg, '.' for a
// hole, ',' for an empty goal and '*' for a marked hole. Marked pegs are
// drawn as '@'.
func (g *Geometry) Render(state, marks Bitboard) string {
	var sb strings.Builder
	for r := 0; r < g.height; r++ {
		row := make([]byte, g.width)
		for c := 0; c < g.width; c++ {
			cell := g.CellAt(r, c)
			switch {
			case cell == NoCell:
				row[c] = ' '
			case state.IsSet(cell) && marks.IsSet(cell):
				row[c] = '@'
			case state.IsSet(cell):
				row[c] = 'o'
			case marks.IsSet(cell):
				row[c] = '*'
			case cell == g.goal:
				row[c] = ','
			default:
				row[c] = '.'
			}
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
