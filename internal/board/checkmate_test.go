package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Test position: Back rank mate
	// White: Ka1, Ra8
	// Black: Kh8, pawns on g7 and h7 blocking escape
	pos, err := ParsePlacement("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)

	check, mate := pos.Evaluate(Black)
	t.Log("InCheck:", check, "IsCheckmate:", mate)

	if !check {
		t.Error("Expected check but got false")
	}
	if !mate {
		t.Error("Expected checkmate but got false")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Test position: King CAN escape - not checkmate
	// Black king on h8, rook on g8 but king can take it
	pos, err := ParsePlacement("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	check, mate := pos.Evaluate(Black)
	if !check {
		t.Error("Expected check but got false")
	}
	if mate {
		t.Error("Expected NOT checkmate but got true")
	}
}

func TestNoCheck(t *testing.T) {
	pos := NewGame()
	for _, c := range []Color{White, Black} {
		check, mate := pos.Evaluate(c)
		if check || mate {
			t.Errorf("%s: expected no check in the starting position", c)
		}
	}
}

func TestCheckmateIgnoresBlock(t *testing.T) {
	// Black could interpose Rd8, yet only escape squares are examined,
	// so the position is reported as mate.
	pos, err := ParsePlacement("R6k/6pp/8/8/8/8/K7/3r4")
	if err != nil {
		t.Fatal(err)
	}
	rook, ok := pos.At(0, 3)
	if !ok || !pos.CanMove(rook, 7, 3) {
		t.Fatal("Expected black rook to reach d8")
	}

	if _, mate := pos.Evaluate(Black); !mate {
		t.Error("Expected escape-square evaluation to report mate")
	}
}

func TestCheckmateIgnoresCapture(t *testing.T) {
	// The checking rook can be taken by the black rook on a1.
	pos, err := ParsePlacement("R6k/6pp/8/8/8/8/7K/r7")
	if err != nil {
		t.Fatal(err)
	}
	if _, mate := pos.Evaluate(Black); !mate {
		t.Error("Expected escape-square evaluation to report mate")
	}
}

func TestIsCheckedRestoresBoard(t *testing.T) {
	placements := []string{
		StartPlacement,
		"R6k/6pp/8/8/8/8/8/K7",
		"r3k2r/pp3ppp/8/3Q4/8/8/PP3PPP/R3K2R",
		"8/8/3k4/8/8/3K4/8/8",
	}

	for _, fen := range placements {
		pos, err := ParsePlacement(fen)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		before := pos.String()
		for _, c := range []Color{White, Black} {
			king := pos.King(c)
			for r := 0; r < 8; r++ {
				for col := 0; col < 8; col++ {
					pos.IsChecked(king, r, col)
				}
			}
			pos.Evaluate(c)
		}
		if after := pos.String(); after != before {
			t.Errorf("%s: board changed by IsChecked:\nbefore\n%s\nafter\n%s", fen, before, after)
		}
	}
}

func TestIsCheckedIgnoresPieceOnSquare(t *testing.T) {
	// The white king could take the rook on e2: the rook itself does not
	// count as an attacker of its own square.
	pos, err := ParsePlacement("4k3/8/8/8/8/8/4r3/4K3")
	if err != nil {
		t.Fatal(err)
	}
	king := pos.King(White)
	if !pos.IsChecked(king, 0, 4) {
		t.Error("Expected e1 to be attacked by the rook")
	}
	if pos.IsChecked(king, 1, 4) {
		t.Error("Expected e2 to be safe after capturing the rook")
	}
	if !pos.IsChecked(king, 1, 3) {
		t.Error("Expected d2 to be attacked by the rook on the second rank")
	}
}
