package board

import "fmt"

// predicate reports whether a piece may move to (row, col), given that
// the destination is on the board, differs from the piece's square and
// holds no piece of the same color.
type predicate func(p *Position, pc *Piece, row, col int) bool

var predicates = [6]predicate{
	Pawn:   pawnMove,
	Knight: knightMove,
	Bishop: bishopMove,
	Rook:   rookMove,
	Queen:  queenMove,
	King:   kingMove,
}

// CanMove reports whether the piece may move to (row, col) on the
// current board. Off-board and same-square destinations report false;
// use Reachable to have them reported as errors instead.
func (p *Position) CanMove(id PieceID, row, col int) bool {
	pc := &p.pieces[id]
	if !onBoard(row, col) || (pc.Row == row && pc.Col == col) {
		return false
	}
	if occ := p.grid[row][col]; occ != NoPiece && p.pieces[occ].Color == pc.Color {
		return false
	}
	return predicates[pc.Type](p, pc, row, col)
}

// Reachable is CanMove with contract checking.
func (p *Position) Reachable(id PieceID, row, col int) (bool, error) {
	pc := &p.pieces[id]
	if !onBoard(row, col) {
		return false, fmt.Errorf("%w: destination row %d col %d off the board", ErrContract, row, col)
	}
	if pc.Row == row && pc.Col == col {
		return false, fmt.Errorf("%w: %s %s already at %s", ErrContract, pc.Color, pc.Type, pc.Square())
	}
	return p.CanMove(id, row, col), nil
}

func rookMove(p *Position, pc *Piece, row, col int) bool {
	if pc.Row != row && pc.Col != col {
		return false
	}
	return p.clearBetween(pc.Row, pc.Col, row, col)
}

func bishopMove(p *Position, pc *Piece, row, col int) bool {
	if abs(pc.Row-row) != abs(pc.Col-col) {
		return false
	}
	return p.clearBetween(pc.Row, pc.Col, row, col)
}

func queenMove(p *Position, pc *Piece, row, col int) bool {
	return rookMove(p, pc, row, col) || bishopMove(p, pc, row, col)
}

func knightMove(_ *Position, pc *Piece, row, col int) bool {
	dr, dc := abs(pc.Row-row), abs(pc.Col-col)
	return (dr == 1 && dc == 2) || (dr == 2 && dc == 1)
}

func kingMove(_ *Position, pc *Piece, row, col int) bool {
	return abs(pc.Row-row) <= 1 && abs(pc.Col-col) <= 1
}

func pawnMove(p *Position, pc *Piece, row, col int) bool {
	dir := pc.Color.forward()
	capturing := p.grid[row][col] != NoPiece

	if capturing && row == pc.Row+dir && abs(col-pc.Col) == 1 {
		return true
	}
	if p.enPassant(pc, row, col) {
		return true
	}
	if capturing || col != pc.Col {
		return false
	}
	if row == pc.Row+dir {
		return true
	}
	return pc.Row == pc.Color.pawnRow() && row == pc.Row+2*dir &&
		p.grid[pc.Row+dir][col] == NoPiece
}

// clearBetween reports whether every cell strictly between two cells on
// a common line is empty.
func (p *Position) clearBetween(r0, c0, r1, c1 int) bool {
	dr, dc := sign(r1-r0), sign(c1-c0)
	for r, c := r0+dr, c0+dc; r != r1 || c != c1; r, c = r+dr, c+dc {
		if p.grid[r][c] != NoPiece {
			return false
		}
	}
	return true
}

// EnPassantVictim returns the pawn a pawn would capture en passant by
// moving to (row, col), if that move is an en-passant capture.
func (p *Position) EnPassantVictim(id PieceID, row, col int) (PieceID, bool) {
	pc := &p.pieces[id]
	if pc.Type != Pawn || !onBoard(row, col) || !p.enPassant(pc, row, col) {
		return NoPiece, false
	}
	return p.grid[row-pc.Color.forward()][col], true
}

// enPassant checks the diagonal step onto the square behind a pawn that
// advanced two squares on the previous ply.
func (p *Position) enPassant(pc *Piece, row, col int) bool {
	dir := pc.Color.forward()
	if row != pc.Row+dir || abs(col-pc.Col) != 1 || pc.Row != pc.Color.pawnRow()+3*dir {
		return false
	}
	victim := p.grid[row-dir][col]
	if victim == NoPiece {
		return false
	}
	v := &p.pieces[victim]
	return v.Type == Pawn && v.Color != pc.Color && v.EnPassant
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
