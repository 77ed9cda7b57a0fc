package diagram

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/srwiley/oksvg"

	"github.com/hailam/chessstate/internal/board"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestSVG(t *testing.T) {
	opts := DefaultOptions()
	opts.Highlight = board.SquareBB(board.E4)
	r := newRenderer(t, opts)

	var buf bytes.Buffer
	if err := r.SVG(&buf, board.NewGame()); err != nil {
		t.Fatal(err)
	}
	doc := buf.String()

	if !strings.Contains(doc, `viewBox="0 0 480 480"`) {
		t.Errorf("missing viewBox in\n%s", doc[:200])
	}
	if n := strings.Count(doc, "<circle"); n != 32 {
		t.Errorf("got %d pieces, want 32", n)
	}
	if n := strings.Count(doc, "<rect"); n != 64 {
		t.Errorf("got %d squares, want 64", n)
	}
	if !strings.Contains(doc, hex(lightHighlight)) {
		t.Error("highlighted square not drawn")
	}
	if _, err := oksvg.ReadIconStream(strings.NewReader(doc)); err != nil {
		t.Errorf("document does not parse: %v", err)
	}
}

func TestPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Highlight = board.SquareBB(board.E4)
	r := newRenderer(t, opts)

	var buf bytes.Buffer
	if err := r.PNG(&buf, board.NewGame()); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 480 {
		t.Fatalf("bounds = %v", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"empty dark square d4", 210, 270, darkSquare},
		{"empty light square d3", 210, 330, lightSquare},
		{"highlighted e4", 270, 270, lightHighlight},
		{"white king disc", 250, 450, whitePieceFill},
		{"black king disc", 250, 30, blackPieceFill},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := color.RGBAModel.Convert(img.At(tc.x, tc.y)).(color.RGBA)
			if got != tc.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestFlip(t *testing.T) {
	opts := DefaultOptions()
	opts.Flip = true
	opts.Coordinates = false
	r := newRenderer(t, opts)

	img, err := r.Image(board.NewGame())
	if err != nil {
		t.Fatal(err)
	}
	// Black's king now stands at the bottom, on the d-file column.
	if got := img.RGBAAt(190, 450); got != blackPieceFill {
		t.Errorf("flipped e8 disc = %v, want %v", got, blackPieceFill)
	}
	if got := img.RGBAAt(190, 30); got != whitePieceFill {
		t.Errorf("flipped e1 disc = %v, want %v", got, whitePieceFill)
	}
}

func TestNewRejectsTinySquares(t *testing.T) {
	if _, err := New(Options{SquareSize: 4}); err == nil {
		t.Error("New accepted a 4 pixel square")
	}
}
