package game

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hailam/chessoteric/internal/board"
)

func TestValidateTokens(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		moves   []string
		result  string
		wantErr bool
	}{
		{"full pairs", "1. e4 e5 2. Nf3 Nc6 1-0", []string{"e4", "e5", "Nf3", "Nc6"}, "1-0", false},
		{"white last", "1. e4 e5 2. Nf3 0-1", []string{"e4", "e5", "Nf3"}, "0-1", false},
		{"draw", "1. e4 e5 1/2-1/2", []string{"e4", "e5"}, "1/2-1/2", false},
		{"result only", "1-0", nil, "1-0", false},
		{"wrong number", "1. e4 e5 3. Nf3 Nc6 1-0", nil, "", true},
		{"missing dot", "1 e4 e5 1-0", nil, "", true},
		{"not a number", "a. e4 e5 1-0", nil, "", true},
		{"missing result", "1. e4 e5 2. Nf3 Nc6", nil, "", true},
		{"bad result", "1. e4 e5 2-0", nil, "", true},
		{"empty", "", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moves, result, err := ValidateTokens(strings.Fields(tt.text))
			if tt.wantErr {
				if !errors.Is(err, board.ErrNotation) {
					t.Errorf("Expected ErrNotation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateTokens failed: %v", err)
			}
			if !reflect.DeepEqual(moves, tt.moves) {
				t.Errorf("moves: got %q, want %q", moves, tt.moves)
			}
			if result != tt.result {
				t.Errorf("result: got %q, want %q", result, tt.result)
			}
		})
	}
}

func TestValidateTokensQuotesOffender(t *testing.T) {
	_, _, err := ValidateTokens(strings.Fields("1. e4 e5 3. Nf3 Nc6 1-0"))
	if err == nil || !strings.Contains(err.Error(), "3.") {
		t.Errorf("Expected error naming the bad number, got %v", err)
	}
}
