// Package game replays an annotated game transcript against the board
// model and emits one BTM command per annotated move.
package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/chessoteric/internal/board"
)

// IsResult reports whether the token is a game result marker.
func IsResult(token string) bool {
	switch token {
	case "1-0", "0-1", "1/2-1/2":
		return true
	}
	return false
}

// ValidateTokens checks the move-number framing of a transcript and
// returns its moves in order together with the result token.
//
// Tokens come in triples (number, white move, black move) and the last
// token is the result.
func ValidateTokens(tokens []string) (moves []string, result string, err error) {
	if len(tokens) == 0 {
		return nil, "", fmt.Errorf("%w: empty transcript", board.ErrNotation)
	}
	last := len(tokens) - 1

	for i := 0; i < last; i += 3 {
		if !validNumber(tokens[i], i/3+1) {
			return nil, "", fmt.Errorf("%w: incorrect number: %s", board.ErrNotation, tokens[i])
		}
	}
	result = tokens[last]
	if !IsResult(result) {
		return nil, "", fmt.Errorf("%w: invalid ending: %s", board.ErrNotation, result)
	}

	for i, tok := range tokens {
		if i%3 != 0 {
			moves = append(moves, tok)
		}
	}
	if len(moves) > 0 && IsResult(moves[len(moves)-1]) {
		moves = moves[:len(moves)-1]
	}
	return moves, result, nil
}

func validNumber(token string, want int) bool {
	digits, ok := strings.CutSuffix(token, ".")
	if !ok || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(digits)
	return err == nil && n == want
}
