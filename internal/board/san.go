package board

import (
	"fmt"
	"strings"
)

// Notation is a parsed move token: either an ordinary move or, when
// Castle is set, a castle. Origin and destination fields are -1 when
// the token does not give them.
type Notation struct {
	Token  string
	Castle CastleSide

	Piece   PieceType
	FromRow int
	FromCol int
	ToRow   int
	ToCol   int

	Capture   bool
	Check     bool
	Mate      bool
	Promotion PieceType

	// Symbol is the trailing annotation ("", "!", "?", "!!", "?!", "!?", "??").
	Symbol string
}

// HasOrigin reports whether the token carried a disambiguation hint.
func (n Notation) HasOrigin() bool {
	return n.FromRow >= 0 || n.FromCol >= 0
}

// IsAnnotation reports whether s is one of the six move annotation symbols.
func IsAnnotation(s string) bool {
	switch s {
	case "!", "?", "!!", "?!", "!?", "??":
		return true
	}
	return false
}

// ParseMove parses one SAN move token.
//
// The token is scanned left to right: an optional piece letter, a file
// and rank, an optional capture marker, and a second file and rank that
// turn the first pair into an origin hint. Promotion, check or mate and
// an annotation symbol may follow. Castles are "O-O" and "O-O-O".
func ParseMove(token string) (Notation, error) {
	n := Notation{
		Token:     token,
		Piece:     Pawn,
		FromRow:   -1,
		FromCol:   -1,
		ToRow:     -1,
		ToCol:     -1,
		Promotion: NoPieceType,
	}
	bad := func() (Notation, error) {
		return Notation{}, fmt.Errorf("%w: invalid chess notation: %s", ErrNotation, token)
	}

	if token == "" {
		return bad()
	}

	// Handle castling
	if strings.HasPrefix(token, "O-O-O") {
		n.Castle = QueenSide
		n.Piece = King
		return parseSuffix(n, 5)
	}
	if strings.HasPrefix(token, "O-O") {
		n.Castle = KingSide
		n.Piece = King
		return parseSuffix(n, 3)
	}

	i := 0
	if pt, ok := PieceTypeFromLetter(token[0]); ok {
		n.Piece = pt
		i = 1
	} else if _, ok := fileIndex(token[0]); !ok {
		return bad()
	}

	if i < len(token) {
		if col, ok := fileIndex(token[i]); ok {
			n.ToCol = col
			i++
		}
	}
	if i < len(token) {
		if row, ok := rankIndex(token[i]); ok {
			n.ToRow = row
			i++
		}
	}
	if i < len(token) && token[i] == 'x' {
		n.Capture = true
		i++
	}
	if i < len(token) {
		if col, ok := fileIndex(token[i]); ok {
			n.FromCol, n.ToCol = n.ToCol, col
			i++
		}
	}
	if i < len(token) {
		if row, ok := rankIndex(token[i]); ok {
			n.FromRow, n.ToRow = n.ToRow, row
			i++
		}
	}

	// Parse promotion
	if i < len(token) && token[i] == '=' {
		i++
		if i == len(token) {
			return Notation{}, fmt.Errorf("%w: must specify promotion piece: %s", ErrNotation, token)
		}
		switch pt, _ := PieceTypeFromLetter(token[i]); pt {
		case Queen, Rook, Bishop, Knight:
			n.Promotion = pt
		default:
			return Notation{}, fmt.Errorf("%w: must specify promotion piece: %s", ErrNotation, token)
		}
		i++
	}

	if n.ToRow < 0 || n.ToCol < 0 {
		return bad()
	}
	return parseSuffix(n, i)
}

// parseSuffix reads the check or mate marker and annotation symbol
// starting at token[i].
func parseSuffix(n Notation, i int) (Notation, error) {
	token := n.Token
	if i < len(token) && token[i] == '+' {
		n.Check = true
		i++
	} else if i < len(token) && token[i] == '#' {
		n.Mate = true
		i++
	}
	if i < len(token) && IsAnnotation(token[i:]) {
		n.Symbol = token[i:]
		i = len(token)
	}
	if i < len(token) {
		return Notation{}, fmt.Errorf("%w: invalid chess notation: %s", ErrNotation, token)
	}
	return n, nil
}

// String returns the token the notation was parsed from.
func (n Notation) String() string {
	return n.Token
}
