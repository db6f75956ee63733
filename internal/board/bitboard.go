package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of cells: bit i set means a peg is present at cell i.
// Board states and hint sets share this representation. Boards are limited
// to MaxCells cells so that a state fits in a single word.
type Bitboard uint64

// MaxCells is the largest number of cells a geometry may have.
const MaxCells = 64

// Empty is the bitboard with no cells set.
const Empty Bitboard = 0

// CellBB returns a bitboard with only the given cell set.
func CellBB(c Cell) Bitboard {
	return 1 << uint(c)
}

// Set sets the bit of the given cell.
func (b Bitboard) Set(c Cell) Bitboard {
	return b | (1 << uint(c))
}

// Clear clears the bit of the given cell.
func (b Bitboard) Clear(c Cell) Bitboard {
	return b &^ (1 << uint(c))
}

// IsSet returns true if the bit of the given cell is set.
// Negative cells are never set.
func (b Bitboard) IsSet(c Cell) bool {
	return c >= 0 && c < MaxCells && b&(1<<uint(c)) != 0
}

// Toggle flips the bit of the given cell.
func (b Bitboard) Toggle(c Cell) Bitboard {
	return b ^ (1 << uint(c))
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// IsSingle returns true if exactly one bit is set.
func (b Bitboard) IsSingle() bool {
	return b != 0 && b&(b-1) == 0
}

// LSB returns the lowest set cell.
func (b Bitboard) LSB() Cell {
	if b == 0 {
		return NoCell
	}
	return Cell(bits.TrailingZeros64(uint64(b)))
}

// PopLSB returns the lowest set cell and clears it.
func (b *Bitboard) PopLSB() Cell {
	c := b.LSB()
	*b &= *b - 1
	return c
}

// ForEach calls the function for each set cell in ascending order.
func (b Bitboard) ForEach(f func(Cell)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Cells returns the set cells in ascending order.
func (b Bitboard) Cells() []Cell {
	cells := make([]Cell, 0, b.PopCount())
	for b != 0 {
		cells = append(cells, b.PopLSB())
	}
	return cells
}

// String returns the set cells as a space separated list, e.g. "{3 16 20}".
func (b Bitboard) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range b.Cells() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
