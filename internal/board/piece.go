package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the row delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// pawnRow is the row pawns of this color start on.
func (c Color) pawnRow() int {
	if c == White {
		return 1
	}
	return 6
}

// backRow is the row the king and rooks of this color start on.
func (c Color) backRow() int {
	if c == White {
		return 0
	}
	return 7
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceTypeFromLetter maps a SAN piece letter to its type.
// Pawns have no letter and report false.
func PieceTypeFromLetter(c byte) (PieceType, bool) {
	switch c {
	case 'N':
		return Knight, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	default:
		return NoPieceType, false
	}
}

// PieceID is a stable index into a Position's piece arena.
type PieceID int

// NoPiece marks an empty board cell.
const NoPiece PieceID = -1

// Piece is one piece in the arena. Captured pieces stay in the arena
// with Alive cleared so that IDs never move.
type Piece struct {
	Type  PieceType
	Color Color
	Row   int
	Col   int
	Moved bool
	// EnPassant is set on a pawn whose last move was a two-square advance.
	EnPassant bool
	Alive     bool
}

// Square returns the square the piece stands on.
func (p Piece) Square() Square {
	return NewSquare(p.Row, p.Col)
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	c := p.Type.Char()
	if p.Color == White && c != ' ' {
		c -= 'a' - 'A'
	}
	return string(c)
}

// pieceFromChar converts a FEN character to a type and color.
func pieceFromChar(c byte) (PieceType, Color, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	if c == 'P' {
		return Pawn, color, true
	}
	pt, ok := PieceTypeFromLetter(c)
	return pt, color, ok
}
