// Package render draws board snapshots for annotated moves.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hailam/chessoteric/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// CaptionHeight is the strip below the board holding the caption.
const CaptionHeight = 16

// MinSize is the smallest board size that leaves room for piece letters.
const MinSize = 64

var (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	whitePiece  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	blackPiece  = color.RGBA{0x20, 0x20, 0x20, 0xff}
	captionInk  = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// Snapshot renders the position as a size x size board with the caption
// written underneath.
func Snapshot(pos *board.Position, caption string, size int) (*image.RGBA, error) {
	if size < MinSize {
		return nil, fmt.Errorf("render: board size %d below %d", size, MinSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(pos)))
	if err != nil {
		return nil, fmt.Errorf("render: parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size+CaptionHeight))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	scanner := rasterx.NewScannerGV(size, size, img, image.Rect(0, 0, size, size))
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	cell := size / 8
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			id, ok := pos.At(r, c)
			if !ok {
				continue
			}
			pc := pos.Piece(id)
			ink := blackPiece
			if pc.Color == board.Black {
				ink = whitePiece
			}
			x := c*cell + cell/2 - 3
			y := (7-r)*cell + cell/2 + 4
			drawText(img, string("PNBRQK"[pc.Type]), x, y, ink)
		}
	}
	drawText(img, caption, 2, size+CaptionHeight-4, captionInk)

	return img, nil
}

// boardSVG draws the squares and one disc per piece.
func boardSVG(pos *board.Position) string {
	const cell = 10
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		8*cell, 8*cell, 8*cell, 8*cell)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			fill := darkSquare
			if (r+c)%2 == 1 {
				fill = lightSquare
			}
			x, y := c*cell, (7-r)*cell
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, cell, cell, fill)

			id, ok := pos.At(r, c)
			if !ok {
				continue
			}
			disc, rim := "#ffffff", "#202020"
			if pos.Piece(id).Color == board.Black {
				disc, rim = "#202020", "#ffffff"
			}
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="4" fill="%s" stroke="%s" stroke-width="0.5"/>`,
				x+cell/2, y+cell/2, disc, rim)
		}
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

func drawText(img *image.RGBA, s string, x, y int, ink color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Tracer writes one PNG per annotated move into a directory.
type Tracer struct {
	Dir  string
	Size int
	n    int
}

// Trace renders pos with the move and command as caption. Its signature
// matches game.Tracer.
func (t *Tracer) Trace(ply int, move board.Notation, pos *board.Position, command string) error {
	t.n++
	img, err := Snapshot(pos, fmt.Sprintf("%d %s %s", ply, move.Token, command), t.Size)
	if err != nil {
		return err
	}
	return WritePNG(filepath.Join(t.Dir, fmt.Sprintf("%03d-%d.png", t.n, ply)), img)
}
