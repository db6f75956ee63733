package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/pegplay/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	Background    color.RGBA
	BoardFill     color.RGBA
	BoardEdge     color.RGBA
	GoalRing      color.RGBA
	ActiveRing    color.RGBA
	TargetColor   color.RGBA
	HintColor     color.RGBA
	InvalidFlash  color.RGBA
	SolvedOverlay color.RGBA
	TextColor     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Background:    color.RGBA{40, 44, 52, 255},
		BoardFill:     color.RGBA{196, 150, 100, 255}, // Light wood
		BoardEdge:     color.RGBA{120, 80, 45, 255},
		GoalRing:      color.RGBA{90, 160, 220, 220},
		ActiveRing:    color.RGBA{247, 247, 105, 230},
		TargetColor:   color.RGBA{130, 190, 105, 210},
		HintColor:     color.RGBA{120, 220, 255, 150},
		InvalidFlash:  color.RGBA{255, 80, 80, 150},
		SolvedOverlay: color.RGBA{50, 150, 50, 60},
		TextColor:     color.RGBA{220, 220, 220, 255},
	}
}

// BoardView is everything the renderer needs to draw one frame of the board.
type BoardView struct {
	State   board.Bitboard
	Goal    board.Cell
	Active  board.Cell
	Targets board.Bitboard
	Hints   board.Bitboard
	Drag    board.Cell // peg lifted off the board, or NoCell
	Solved  bool
}

// Renderer handles all board drawing. Coordinates passed in and out are
// logical pixels; drawing multiplies by the HiDPI scale.
type Renderer struct {
	sprites  *SpriteManager
	theme    *Theme
	geo      *board.Geometry
	size     int // Logical side of the square board area
	cellSize int
	offX     int // Logical offset of column 0
	offY     int // Logical offset of row 0
	scale    float64
}

// NewRenderer creates a renderer for a board area of the given size.
func NewRenderer(size int, geo *board.Geometry) *Renderer {
	r := &Renderer{theme: DefaultTheme(), size: size, scale: 1.0}
	r.sprites = NewSpriteManager(r.layout(geo))
	return r
}

// SetGeometry switches the renderer to a new board shape.
func (r *Renderer) SetGeometry(geo *board.Geometry) {
	r.sprites.SetSize(r.layout(geo))
}

// layout fits the geometry's bounding grid into the board area and
// returns the cell size.
func (r *Renderer) layout(geo *board.Geometry) int {
	r.geo = geo
	n := max(geo.Width(), geo.Height(), 1)
	margin := r.size / 16
	r.cellSize = (r.size - 2*margin) / n
	r.offX = (r.size - r.cellSize*geo.Width()) / 2
	r.offY = (r.size - r.cellSize*geo.Height()) / 2
	return r.cellSize
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v float64) float32 {
	return float32(v * r.scale)
}

// CellCenter returns the logical center of a cell.
func (r *Renderer) CellCenter(c board.Cell) (float64, float64) {
	row, col := r.geo.Coord(c)
	half := float64(r.cellSize) / 2
	return float64(r.offX+col*r.cellSize) + half, float64(r.offY+row*r.cellSize) + half
}

// ScreenToCell returns the cell under logical point (x, y), or NoCell
// when the point is not over a cell.
func (r *Renderer) ScreenToCell(x, y int) board.Cell {
	if x < r.offX || y < r.offY {
		return board.NoCell
	}
	col := (x - r.offX) / r.cellSize
	row := (y - r.offY) / r.cellSize
	return r.geo.CellAt(row, col)
}

// DrawBoard draws the board background, holes, marks and pegs.
// fx may be nil.
func (r *Renderer) DrawBoard(screen *ebiten.Image, v BoardView, fx *Effects) {
	r.drawBase(screen)

	cs := float64(r.cellSize)
	for c := board.Cell(0); int(c) < r.geo.NumCells(); c++ {
		cx, cy := r.CellCenter(c)
		r.sprites.Draw(screen, SpriteHole, float64(r.s(cx-cs/2)), float64(r.s(cy-cs/2)), 1)

		if c == v.Goal {
			vector.StrokeCircle(screen, r.s(cx), r.s(cy), r.s(cs*0.42), r.s(2.5), r.theme.GoalRing, true)
		}
		if v.Hints.IsSet(c) {
			r.drawGlow(screen, cx, cy, r.theme.HintColor)
		}
		if v.Targets.IsSet(c) && !v.State.IsSet(c) {
			vector.DrawFilledCircle(screen, r.s(cx), r.s(cy), r.s(cs*0.14), r.theme.TargetColor, true)
		}
	}

	for c := board.Cell(0); int(c) < r.geo.NumCells(); c++ {
		if !v.State.IsSet(c) || c == v.Drag {
			continue
		}
		cx, cy := r.CellCenter(c)
		if fx != nil {
			dx, dy := fx.Offset(c)
			cx += dx
			cy += dy
		}
		sprite := SpritePeg
		if c == v.Active {
			sprite = SpritePegActive
		}
		r.sprites.Draw(screen, sprite, float64(r.s(cx-cs/2)), float64(r.s(cy-cs/2)), 1)
		if c == v.Active {
			vector.StrokeCircle(screen, r.s(cx), r.s(cy), r.s(cs*0.45), r.s(3), r.theme.ActiveRing, true)
		}
	}

	if v.Solved {
		vector.DrawFilledRect(screen, 0, 0, r.s(float64(r.size)), r.s(float64(r.size)), r.theme.SolvedOverlay, false)
	}
}

// drawBase paints the wooden board behind the cells.
func (r *Renderer) drawBase(screen *ebiten.Image) {
	cs := float64(r.cellSize)
	pad := cs * 0.08
	for c := board.Cell(0); int(c) < r.geo.NumCells(); c++ {
		cx, cy := r.CellCenter(c)
		x, y := cx-cs/2-pad, cy-cs/2-pad
		vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(cs+2*pad), r.s(cs+2*pad), r.theme.BoardEdge, false)
	}
	for c := board.Cell(0); int(c) < r.geo.NumCells(); c++ {
		cx, cy := r.CellCenter(c)
		x, y := cx-cs/2, cy-cs/2
		vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(cs), r.s(cs), r.theme.BoardFill, false)
	}
}

// drawGlow draws a soft pulsing halo around a cell.
func (r *Renderer) drawGlow(screen *ebiten.Image, cx, cy float64, c color.RGBA) {
	cs := float64(r.cellSize)
	pulse := 0.85 + 0.15*math.Sin(float64(ebiten.Tick())/10)
	for i, k := range []float64{0.48, 0.42, 0.36} {
		a := uint8(float64(c.A) * pulse / float64(i+2))
		vector.DrawFilledCircle(screen, r.s(cx), r.s(cy), r.s(cs*k), color.RGBA{c.R, c.G, c.B, a}, true)
	}
}

// DrawDraggedPeg draws the lifted peg centered on the mouse.
func (r *Renderer) DrawDraggedPeg(screen *ebiten.Image, mouseX, mouseY int) {
	half := float64(r.cellSize) / 2
	r.sprites.Draw(screen, SpritePegActive, float64(r.s(float64(mouseX)-half)), float64(r.s(float64(mouseY)-half)), 0.9)
}

// DrawCellFlash overlays a fading disc on a cell.
func (r *Renderer) DrawCellFlash(screen *ebiten.Image, c board.Cell, clr color.RGBA) {
	cx, cy := r.CellCenter(c)
	vector.DrawFilledCircle(screen, r.s(cx), r.s(cy), r.s(float64(r.cellSize)*0.45), clr, true)
}

// DrawCellRing strokes a ring on a cell. radius is a fraction of the cell size.
func (r *Renderer) DrawCellRing(screen *ebiten.Image, c board.Cell, radius float64, clr color.RGBA) {
	cx, cy := r.CellCenter(c)
	vector.StrokeCircle(screen, r.s(cx), r.s(cy), r.s(float64(r.cellSize)*radius), r.s(3), clr, true)
}

// Size returns the logical side of the board area.
func (r *Renderer) Size() int {
	return r.size
}

// CellSize returns the logical size of one cell.
func (r *Renderer) CellSize() int {
	return r.cellSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
