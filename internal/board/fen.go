package board

import (
	"fmt"
	"strings"
)

// StartPlacement is the FEN piece placement of the starting position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// ParsePlacement builds a position from the piece placement field of a
// FEN string. Any further FEN fields are ignored. Pieces off their
// starting squares are marked as moved, so castling rights and pawn
// double steps follow from placement alone.
func ParsePlacement(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid FEN: empty")
	}

	pos := &Position{}
	if err := parsePiecePlacement(pos, fields[0]); err != nil {
		return nil, err
	}
	for c := White; c <= Black; c++ {
		if n := len(pos.set[c][King]); n != 1 {
			return nil, fmt.Errorf("invalid FEN: %s has %d kings", c, n)
		}
	}
	pos.rebuild()

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		row := 7 - i // FEN starts from rank 8
		col := 0

		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("too many squares in rank %d", row+1)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				col += int(c - '0')
				continue
			}

			pt, color, ok := pieceFromChar(byte(c))
			if !ok {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			id := pos.add(pt, color, row, col)
			pos.pieces[id].Moved = !onStartSquare(pt, color, row, col)
			col++
		}

		if col != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", row+1, col)
		}
	}

	return nil
}

func onStartSquare(pt PieceType, c Color, row, col int) bool {
	switch pt {
	case Pawn:
		return row == c.pawnRow()
	case King:
		return row == c.backRow() && col == 4
	case Rook:
		return row == c.backRow() && (col == 0 || col == 7)
	default:
		return row == c.backRow()
	}
}
