// Package board implements the mutable chess position used to replay
// annotated games: a piece arena, the derived 8x8 grid, movement
// predicates, check detection and the occupancy encoding.
package board

import "fmt"

// Square identifies a board cell by row (rank, 0 = rank 1) and
// column (file, 0 = file a). Encoded as row*8 + col.
type Square uint8

// NoSquare is returned for unparsable or off-board input.
const NoSquare Square = 64

// Row returns the row (rank) of the square (0-7, where 0=1, 7=8).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column (file) of the square (0-7, where 0=a, 7=h).
func (sq Square) Col() int {
	return int(sq) & 7
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '1'+sq.Row())
}

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	if !onBoard(row, col) {
		return NoSquare
	}
	return Square(row*8 + col)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col, ok := fileIndex(s[0])
	row, ok2 := rankIndex(s[1])
	if !ok || !ok2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(row, col), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

func onBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func fileIndex(c byte) (int, bool) {
	if c < 'a' || c > 'h' {
		return 0, false
	}
	return int(c - 'a'), true
}

func rankIndex(c byte) (int, bool) {
	if c < '1' || c > '8' {
		return 0, false
	}
	return int(c - '1'), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
