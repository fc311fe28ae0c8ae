package board

import "fmt"

// CastleSide selects the rook a king castles with.
type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// String returns the SAN form of the castle.
func (s CastleSide) String() string {
	switch s {
	case KingSide:
		return "O-O"
	case QueenSide:
		return "O-O-O"
	default:
		return ""
	}
}

// Castle castles the king of the given color. Neither the king nor the
// rook may have moved, the cells between them must be empty, and no
// cell the king stands on or crosses may be attacked. The position is
// untouched when an error is returned.
func (p *Position) Castle(c Color, side CastleSide) error {
	row := c.backRow()
	rookCol, kingTo, rookTo := 7, 6, 5
	if side == QueenSide {
		rookCol, kingTo, rookTo = 0, 2, 3
	}

	king := p.King(c)
	k := p.pieces[king]
	rook, ok := p.At(row, rookCol)
	if !ok || k.Moved {
		return fmt.Errorf("%w: invalid castle %s: king or rook missing or moved", ErrNotation, side)
	}
	r := p.pieces[rook]
	if r.Type != Rook || r.Color != c || r.Moved {
		return fmt.Errorf("%w: invalid castle %s: king or rook missing or moved", ErrNotation, side)
	}

	lo, hi := min(rookCol, k.Col), max(rookCol, k.Col)
	for col := lo + 1; col < hi; col++ {
		if p.grid[row][col] != NoPiece {
			return fmt.Errorf("%w: invalid castle %s: %s is occupied", ErrNotation, side, NewSquare(row, col))
		}
	}

	step := sign(kingTo - k.Col)
	for col := k.Col; ; col += step {
		if p.IsChecked(king, row, col) {
			return fmt.Errorf("%w: invalid castle %s: king crosses attacked %s", ErrNotation, side, NewSquare(row, col))
		}
		if col == kingTo {
			break
		}
	}

	p.Move(king, row, kingTo)
	p.Move(rook, row, rookTo)
	return nil
}
