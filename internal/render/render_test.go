package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chessoteric/internal/board"
)

func TestSnapshot(t *testing.T) {
	pos := board.NewGame()

	img, err := Snapshot(pos, "start", 128)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128+CaptionHeight {
		t.Fatalf("Unexpected bounds %v", b)
	}

	// The a8 corner and the empty h4 square are both painted.
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r == 0xffff && g == 0xffff && bl == 0xffff {
		t.Error("Expected a8 corner to be painted, got white")
	}
	r, g, bl, _ = img.At(7*16+1, 4*16+1).RGBA()
	if r == 0xffff && g == 0xffff && bl == 0xffff {
		t.Error("Expected h4 to be painted, got white")
	}
}

func TestSnapshotTooSmall(t *testing.T) {
	if _, err := Snapshot(board.NewGame(), "", 16); err == nil {
		t.Error("Expected error for tiny board")
	}
}

func TestTracer(t *testing.T) {
	dir := t.TempDir()
	tr := &Tracer{Dir: dir, Size: 64}

	n, err := board.ParseMove("e4!")
	if err != nil {
		t.Fatal(err)
	}
	pos := board.NewGame()
	if err := tr.Trace(1, n, pos, pos.Encode()+"!"); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "001-1.png"))
	if err != nil {
		t.Fatalf("Expected trace file: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Trace file is not a PNG: %v", err)
	}
}
