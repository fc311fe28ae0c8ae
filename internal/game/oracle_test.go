package game

import (
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/hailam/chessoteric/internal/board"
)

// operaGame is Morphy's 1858 game against the Duke and Count, stopped
// before the queen sacrifice.
const operaGame = "1. e4 e5 2. Nf3 d6 3. d4 Bg4 4. dxe5 Bxf3 5. Qxf3 dxe5 " +
	"6. Bc4 Nf6 7. Qb3 Qe7 8. Nc3 c6 9. Bg5 b5 10. Nxb5 cxb5 " +
	"11. Bxb5+ Nbd7 12. O-O-O Rd8 13. Rxd7 Rxd7 14. Rd1 Qe6 " +
	"15. Bxd7+ Nxd7 1-0"

// encodeOracle encodes a notnil/chess board the way Position.Encode does.
func encodeOracle(b *chess.Board) string {
	squares := b.SquareMap()
	var sb strings.Builder
	for sq := chess.Square(0); sq < 64; sq++ {
		pc, ok := squares[sq]
		if !ok || pc == chess.NoPiece {
			continue
		}
		if pc.Color() == chess.White {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func TestReplayMatchesOracle(t *testing.T) {
	moves, _, err := ValidateTokens(strings.Fields(operaGame))
	if err != nil {
		t.Fatal(err)
	}

	oracle := chess.NewGame()
	state := NewState()
	for _, token := range moves {
		n, err := board.ParseMove(token)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", token, err)
		}
		state, err = state.Apply(n)
		if err != nil {
			t.Fatalf("Apply(%s): %v", token, err)
		}
		if err := oracle.MoveStr(strings.TrimRight(token, "!?")); err != nil {
			t.Fatalf("oracle rejected %s: %v", token, err)
		}

		if got, want := state.Pos.Encode(), encodeOracle(oracle.Position().Board()); got != want {
			t.Fatalf("after %s:\n got %s\nwant %s", token, got, want)
		}
	}
}

// The mate test only looks at the king's escape squares, so a check that
// can be answered by capturing the checker still counts as mate.
func TestReplayMateIgnoresCaptureDefence(t *testing.T) {
	game := strings.TrimSuffix(operaGame, " 1-0") + " 16. Qb8+ Nxb8 1-0"
	_, _, err := replay(t, game)
	if err == nil || !strings.Contains(err.Error(), "need checkmate symbol: Qb8+") {
		t.Errorf("Expected checkmate symbol error, got %v", err)
	}

	oracle := chess.NewGame()
	moves, _, _ := ValidateTokens(strings.Fields(game))
	for _, token := range moves {
		if err := oracle.MoveStr(token); err != nil {
			t.Fatalf("oracle rejected %s: %v", token, err)
		}
	}
}
