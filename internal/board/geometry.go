package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Template symbols.
const (
	SymbolNone = ' '
	SymbolCell = '.'
	SymbolGoal = ','
	SymbolPeg  = 'o' // alias of SymbolCell, reads better in hand-written layouts
)

// ErrInvalidGeometry is returned for templates that cannot describe a board.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is the immutable shape of a board: which cells exist, how they
// neighbor each other, and which cell lies between two cells a jump apart.
// It is computed once from a template and shared by everything else.
type Geometry struct {
	template []string
	width    int
	height   int

	numCells int
	goal     Cell
	grid     []Cell // grid[row*width+col] == cell at that position or NoCell
	coords   [][2]int
	adj      [][NumDirections]Cell
	middle   []Cell // middle[src*numCells+dst] == cell jumped over, or NoCell

	full        Bitboard
	fingerprint uint64
}

// ParseTemplate builds a Geometry from a rectangular text template. Each
// line is one row; ' ' is no cell, '.' (or 'o') is a cell and ',' marks the
// single goal cell.
func ParseTemplate(lines []string) (*Geometry, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrInvalidGeometry)
	}
	width := len(lines[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidGeometry)
	}
	for r, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidGeometry, r, len(line), width)
		}
	}

	g := &Geometry{
		template: append([]string(nil), lines...),
		width:    width,
		height:   len(lines),
		goal:     NoCell,
		grid:     make([]Cell, width*len(lines)),
	}

	// Assign indices in row-major scan order.
	for r, line := range lines {
		for c := 0; c < width; c++ {
			ch := line[c]
			switch ch {
			case SymbolNone:
				g.grid[r*width+c] = NoCell
				continue
			case SymbolCell, SymbolPeg:
			case SymbolGoal:
				if g.goal != NoCell {
					return nil, fmt.Errorf("%w: second goal cell at row %d col %d", ErrInvalidGeometry, r, c)
				}
				g.goal = Cell(g.numCells)
			default:
				return nil, fmt.Errorf("%w: unknown symbol %q at row %d col %d", ErrInvalidGeometry, ch, r, c)
			}
			if g.numCells == MaxCells {
				return nil, fmt.Errorf("%w: more than %d cells", ErrInvalidGeometry, MaxCells)
			}
			g.grid[r*width+c] = Cell(g.numCells)
			g.coords = append(g.coords, [2]int{r, c})
			g.numCells++
		}
	}
	if g.numCells == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidGeometry)
	}
	if g.goal == NoCell {
		return nil, fmt.Errorf("%w: no goal cell", ErrInvalidGeometry)
	}

	g.computeAdjacency()
	g.computeMiddle()

	if g.numCells == MaxCells {
		g.full = ^Bitboard(0)
	} else {
		g.full = Bitboard(1)<<uint(g.numCells) - 1
	}
	g.fingerprint = xxhash.Sum64String(strings.Join(g.template, "\n"))

	return g, nil
}

// MustParseTemplate is like ParseTemplate but panics on error. It is meant
// for the built-in layouts.
func MustParseTemplate(lines []string) *Geometry {
	g, err := ParseTemplate(lines)
	if err != nil {
		panic(err)
	}
	return g
}

// computeAdjacency looks up the cell in each of the 8 surrounding grid
// positions of every cell.
func (g *Geometry) computeAdjacency() {
	g.adj = make([][NumDirections]Cell, g.numCells)
	for i := 0; i < g.numCells; i++ {
		r, c := g.coords[i][0], g.coords[i][1]
		for _, d := range Directions {
			dr, dc := d.Delta()
			g.adj[i][d] = g.CellAt(r+dr, c+dc)
		}
	}
}

// computeMiddle derives jump shapes by composing adjacency twice: if k is
// the neighbor of i in direction d, then k lies between i and k's neighbor
// in the same direction.
func (g *Geometry) computeMiddle() {
	n := g.numCells
	g.middle = make([]Cell, n*n)
	for i := range g.middle {
		g.middle[i] = NoCell
	}
	for i := 0; i < n; i++ {
		for _, d := range Directions {
			k := g.adj[i][d]
			if k == NoCell {
				continue
			}
			if j := g.adj[k][d]; j != NoCell {
				g.middle[i*n+int(j)] = k
			}
		}
	}
}

// NumCells returns the number of playable cells.
func (g *Geometry) NumCells() int {
	return g.numCells
}

// Goal returns the goal cell.
func (g *Geometry) Goal() Cell {
	return g.goal
}

// GoalMask returns the solved state: a single peg at the goal cell.
func (g *Geometry) GoalMask() Bitboard {
	return CellBB(g.goal)
}

// Full returns the state with every cell pegged.
func (g *Geometry) Full() Bitboard {
	return g.full
}

// Contains returns true if c is a cell of this geometry.
func (g *Geometry) Contains(c Cell) bool {
	return c >= 0 && int(c) < g.numCells
}

// Neighbor returns the adjacent cell of c in direction d, or NoCell.
func (g *Geometry) Neighbor(c Cell, d Direction) Cell {
	if !g.Contains(c) || d < 0 || d >= NumDirections {
		return NoCell
	}
	return g.adj[c][d]
}

// Middle returns the cell lying between src and dst if a straight jump
// connects them, or NoCell.
func (g *Geometry) Middle(src, dst Cell) Cell {
	if !g.Contains(src) || !g.Contains(dst) {
		return NoCell
	}
	return g.middle[int(src)*g.numCells+int(dst)]
}

// CellAt returns the cell at a template position, or NoCell when the
// position is off the template or holds no cell.
func (g *Geometry) CellAt(row, col int) Cell {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return NoCell
	}
	return g.grid[row*g.width+col]
}

// Coord returns the template row and column of a cell.
func (g *Geometry) Coord(c Cell) (row, col int) {
	return g.coords[c][0], g.coords[c][1]
}

// Width returns the template width in columns.
func (g *Geometry) Width() int {
	return g.width
}

// Height returns the template height in rows.
func (g *Geometry) Height() int {
	return g.height
}

// Template returns a copy of the template the geometry was built from.
func (g *Geometry) Template() []string {
	return append([]string(nil), g.template...)
}

// Fingerprint identifies the geometry. Two geometries built from the same
// template share a fingerprint, so solver results can be keyed by it.
func (g *Geometry) Fingerprint() uint64 {
	return g.fingerprint
}

// Valid returns true if the state only sets bits of existing cells.
func (g *Geometry) Valid(state Bitboard) bool {
	return state&^g.full == 0
}
