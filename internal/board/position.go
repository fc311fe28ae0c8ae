package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotation reports a move that is malformed or illegal in the game.
	ErrNotation = errors.New("notation error")
	// ErrContract reports a request the model never accepts from valid input.
	ErrContract = errors.New("contract violation")
)

// Position is a mutable chess position.
//
// Pieces live in an arena and are addressed by PieceID. The piece set
// (per color and type) is the source of truth; the grid is derived from
// it and rebuilt by every mutator.
type Position struct {
	pieces []Piece
	set    [2][6][]PieceID
	grid   [8][8]PieceID
}

// NewGame returns the standard starting position.
func NewGame() *Position {
	pos, err := ParsePlacement(StartPlacement)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	c := &Position{
		pieces: make([]Piece, len(p.pieces)),
		grid:   p.grid,
	}
	copy(c.pieces, p.pieces)
	for color := range p.set {
		for pt := range p.set[color] {
			c.set[color][pt] = append([]PieceID(nil), p.set[color][pt]...)
		}
	}
	return c
}

// Piece returns a copy of the piece with the given ID.
func (p *Position) Piece(id PieceID) Piece {
	return p.pieces[id]
}

// Pieces returns the live pieces of one color and type in insertion order.
func (p *Position) Pieces(c Color, pt PieceType) []PieceID {
	return p.set[c][pt]
}

// At returns the piece on a cell, if any.
func (p *Position) At(row, col int) (PieceID, bool) {
	if !onBoard(row, col) {
		return NoPiece, false
	}
	id := p.grid[row][col]
	return id, id != NoPiece
}

// King returns the king of the given color.
func (p *Position) King(c Color) PieceID {
	kings := p.set[c][King]
	if len(kings) != 1 {
		panic(fmt.Sprintf("board: %s has %d kings", c, len(kings)))
	}
	return kings[0]
}

// add inserts a new live piece and returns its ID.
func (p *Position) add(pt PieceType, c Color, row, col int) PieceID {
	id := PieceID(len(p.pieces))
	p.pieces = append(p.pieces, Piece{Type: pt, Color: c, Row: row, Col: col, Alive: true})
	p.set[c][pt] = append(p.set[c][pt], id)
	return id
}

// Remove takes a captured piece off the board.
func (p *Position) Remove(id PieceID) error {
	pc := &p.pieces[id]
	if !pc.Alive {
		return fmt.Errorf("%w: piece %s at %s already captured", ErrContract, pc, pc.Square())
	}
	if pc.Type == King {
		return fmt.Errorf("%w: cannot remove the %s king", ErrContract, pc.Color)
	}
	pc.Alive = false
	list := p.set[pc.Color][pc.Type]
	for i, other := range list {
		if other == id {
			p.set[pc.Color][pc.Type] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	p.rebuild()
	return nil
}

// Move relocates a piece unconditionally. Legality is the caller's job.
func (p *Position) Move(id PieceID, row, col int) {
	pc := &p.pieces[id]
	if pc.Type == Pawn {
		pc.EnPassant = abs(row-pc.Row) == 2
	}
	pc.Row, pc.Col = row, col
	pc.Moved = true
	p.rebuild()
}

// Promote replaces a pawn with a new piece of the given type on the same square.
func (p *Position) Promote(id PieceID, pt PieceType) (PieceID, error) {
	pc := p.pieces[id]
	if pc.Type != Pawn {
		return NoPiece, fmt.Errorf("%w: promoting a %s", ErrContract, pc.Type)
	}
	switch pt {
	case Queen, Rook, Bishop, Knight:
	default:
		return NoPiece, fmt.Errorf("%w: cannot promote to %s", ErrContract, pt)
	}
	if err := p.Remove(id); err != nil {
		return NoPiece, err
	}
	nid := p.add(pt, pc.Color, pc.Row, pc.Col)
	p.pieces[nid].Moved = true
	p.rebuild()
	return nid, nil
}

// ClearEnPassant drops the en-passant flag of every pawn of one color.
func (p *Position) ClearEnPassant(c Color) {
	for _, id := range p.set[c][Pawn] {
		p.pieces[id].EnPassant = false
	}
}

// rebuild recomputes the grid from the piece set.
func (p *Position) rebuild() {
	for r := range p.grid {
		for c := range p.grid[r] {
			p.grid[r][c] = NoPiece
		}
	}
	for color := range p.set {
		for pt := range p.set[color] {
			for _, id := range p.set[color][pt] {
				pc := p.pieces[id]
				p.grid[pc.Row][pc.Col] = id
			}
		}
	}
}

// Encode returns the occupancy bit string: one bit per occupied square,
// rows 0..7 then columns 0..7, '1' for white and '0' for black.
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			id := p.grid[r][c]
			if id == NoPiece {
				continue
			}
			if p.pieces[id].Color == White {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// String returns a printable board, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		sb.WriteByte('1' + byte(r))
		sb.WriteByte(' ')
		for c := 0; c < 8; c++ {
			if id := p.grid[r][c]; id != NoPiece {
				sb.WriteString(p.pieces[id].String())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	return sb.String()
}
