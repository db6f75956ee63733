// Package board implements the peg solitaire board: geometry derived from a
// text template, bitboard states and the jump move oracle.
package board

import (
	"fmt"
	"strconv"
)

// Cell is the index of a playable position, assigned in template scan order.
type Cell int

// NoCell marks the absence of a cell (off-board neighbor, no selection).
const NoCell Cell = -1

// IsValid returns true if the cell is a non-negative index.
func (c Cell) IsValid() bool {
	return c >= 0
}

// String returns the decimal index, or "-" for NoCell.
func (c Cell) String() string {
	if c < 0 {
		return "-"
	}
	return strconv.Itoa(int(c))
}

// ParseCell parses a decimal cell index. "-" and "-1" parse as NoCell.
func ParseCell(s string) (Cell, error) {
	if s == "-" {
		return NoCell, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < -1 {
		return NoCell, fmt.Errorf("invalid cell: %s", s)
	}
	return Cell(n), nil
}

// Direction is one of the 8 grid directions. Opposite directions come in
// pairs: 0/1 is up/down, 2/3 left/right, 4/5 and 6/7 the two diagonals.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	DownRight
	UpRight
	DownLeft
)

// NumDirections is the number of directions a jump can take.
const NumDirections = 8

// Directions lists all directions in index order.
var Directions = [NumDirections]Direction{Up, Down, Left, Right, UpLeft, DownRight, UpRight, DownLeft}

// dirDelta holds the (row, col) step for each direction.
var dirDelta = [NumDirections][2]int{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
	{-1, -1},
	{1, 1},
	{-1, 1},
	{1, -1},
}

var dirNames = [NumDirections]string{"up", "down", "left", "right", "up-left", "down-right", "up-right", "down-left"}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Delta returns the row and column step of the direction.
func (d Direction) Delta() (int, int) {
	return dirDelta[d][0], dirDelta[d][1]
}

// String returns the direction name.
func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "?"
	}
	return dirNames[d]
}
