// Package diagram renders board states as SVG documents and PNG images.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessstate/internal/board"
)

// Board colors
var (
	lightSquare     = color.RGBA{0xF0, 0xD9, 0xB5, 0xFF}
	darkSquare      = color.RGBA{0xB5, 0x88, 0x63, 0xFF}
	lightHighlight  = color.RGBA{0xF7, 0xEC, 0x74, 0xFF}
	darkHighlight   = color.RGBA{0xDA, 0xC3, 0x4B, 0xFF}
	whitePieceFill  = color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}
	blackPieceFill  = color.RGBA{0x2B, 0x2B, 0x2B, 0xFF}
	pieceOutline    = color.RGBA{0x10, 0x10, 0x10, 0xFF}
	coordinateColor = color.RGBA{0x40, 0x30, 0x20, 0xFF}
)

// Options configures a Renderer.
type Options struct {
	SquareSize  int
	Flip        bool // draw from Black's side
	Coordinates bool
	Highlight   board.Bitboard
}

// DefaultOptions returns a 60 pixel board with coordinates.
func DefaultOptions() Options {
	return Options{SquareSize: 60, Coordinates: true}
}

// Renderer draws states with fixed options. SVG may be called
// concurrently. Image and PNG share font faces and must not be.
type Renderer struct {
	opts  Options
	face  font.Face
	small font.Face
}

// New returns a Renderer for opts.
func New(opts Options) (*Renderer, error) {
	if opts.SquareSize < 16 {
		return nil, fmt.Errorf("diagram: square size %d too small", opts.SquareSize)
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("diagram: load font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(opts.SquareSize) * 0.45,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("diagram: load font: %w", err)
	}
	small, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(opts.SquareSize) * 0.2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("diagram: load font: %w", err)
	}
	return &Renderer{opts: opts, face: face, small: small}, nil
}

// Size returns the side length of the rendered board in pixels.
func (r *Renderer) Size() int {
	return 8 * r.opts.SquareSize
}

// origin returns the top-left pixel of sq.
func (r *Renderer) origin(sq board.Square) (x, y int) {
	file, rank := sq.File(), 7-sq.Rank()
	if r.opts.Flip {
		file, rank = 7-file, 7-rank
	}
	return file * r.opts.SquareSize, rank * r.opts.SquareSize
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func squareColor(sq board.Square, highlight board.Bitboard) color.RGBA {
	light := sq.IsLight()
	switch {
	case highlight.IsSet(sq) && light:
		return lightHighlight
	case highlight.IsSet(sq):
		return darkHighlight
	case light:
		return lightSquare
	}
	return darkSquare
}

// SVG writes st as an SVG document. Pieces are discs marked with their
// letter.
func (r *Renderer) SVG(w io.Writer, st *board.State) error {
	r.writeSVG(w, st, true)
	return nil
}

// writeSVG emits the document. Text is left out when labels is false,
// since the rasterizer does not draw it.
func (r *Renderer) writeSVG(w io.Writer, st *board.State, labels bool) {
	n := r.Size()
	ss := r.opts.SquareSize
	canvas := svg.New(w)
	canvas.Startview(n, n, 0, 0, n, n)

	canvas.Gid("squares")
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := r.origin(sq)
		canvas.Rect(x, y, ss, ss, fmt.Sprintf(`fill="%s"`, hex(squareColor(sq, r.opts.Highlight))))
	}
	canvas.Gend()

	canvas.Gid("pieces")
	for sq := board.A1; sq <= board.H8; sq++ {
		p := st.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		x, y := r.origin(sq)
		fill, ink := whitePieceFill, blackPieceFill
		if p.Color() == board.Black {
			fill, ink = blackPieceFill, whitePieceFill
		}
		canvas.Circle(x+ss/2, y+ss/2, ss*2/5,
			fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%d"`, hex(fill), hex(pieceOutline), max(1, ss/30)))
		if labels {
			canvas.Text(x+ss/2, y+ss/2, string(p.Type().Letter()),
				fmt.Sprintf(`fill="%s" font-family="sans-serif" font-weight="bold" font-size="%d" text-anchor="middle" dominant-baseline="central"`,
					hex(ink), ss*9/20))
		}
	}
	canvas.Gend()

	if labels && r.opts.Coordinates {
		r.svgCoordinates(canvas)
	}
	canvas.End()
}

func (r *Renderer) svgCoordinates(canvas *svg.SVG) {
	ss := r.opts.SquareSize
	style := fmt.Sprintf(`fill="%s" font-family="sans-serif" font-size="%d"`, hex(coordinateColor), ss/5)
	canvas.Gid("coordinates")
	for i := 0; i < 8; i++ {
		fileSq := board.NewSquare(i, 0)
		rankSq := board.NewSquare(0, i)
		if r.opts.Flip {
			fileSq = board.NewSquare(i, 7)
			rankSq = board.NewSquare(7, i)
		}
		x, _ := r.origin(fileSq)
		canvas.Text(x+ss-ss/5, r.Size()-ss/12, fileSq.String()[:1], style)
		_, y := r.origin(rankSq)
		canvas.Text(ss/20, y+ss/5, rankSq.String()[1:], style)
	}
	canvas.Gend()
}

// Image rasterizes st.
func (r *Renderer) Image(st *board.State) (*image.RGBA, error) {
	var buf bytes.Buffer
	r.writeSVG(&buf, st, false)

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("diagram: parse svg: %w", err)
	}
	n := r.Size()
	icon.SetTarget(0, 0, float64(n), float64(n))

	rgba := image.NewRGBA(image.Rect(0, 0, n, n))
	scanner := rasterx.NewScannerGV(n, n, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(n, n, scanner)
	icon.Draw(raster, 1.0)

	ss := r.opts.SquareSize
	for sq := board.A1; sq <= board.H8; sq++ {
		p := st.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		ink := blackPieceFill
		if p.Color() == board.Black {
			ink = whitePieceFill
		}
		x, y := r.origin(sq)
		r.drawCentered(rgba, r.face, string(p.Type().Letter()), ink, x+ss/2, y+ss/2)
	}

	if r.opts.Coordinates {
		for i := 0; i < 8; i++ {
			fileSq, rankSq := board.NewSquare(i, 0), board.NewSquare(0, i)
			if r.opts.Flip {
				fileSq, rankSq = board.NewSquare(i, 7), board.NewSquare(7, i)
			}
			x, _ := r.origin(fileSq)
			r.drawText(rgba, r.small, fileSq.String()[:1], coordinateColor, x+ss-ss/5, n-ss/12)
			_, y := r.origin(rankSq)
			r.drawText(rgba, r.small, rankSq.String()[1:], coordinateColor, ss/20, y+ss/5)
		}
	}
	return rgba, nil
}

// PNG writes st as a PNG image.
func (r *Renderer) PNG(w io.Writer, st *board.State) error {
	img, err := r.Image(st)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func (r *Renderer) drawText(dst *image.RGBA, face font.Face, s string, c color.Color, x, y int) {
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// drawCentered draws s with its box centered on (cx, cy).
func (r *Renderer) drawCentered(dst *image.RGBA, face font.Face, s string, c color.Color, cx, cy int) {
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	bounds, _ := d.BoundString(s)
	w := bounds.Max.X - bounds.Min.X
	h := bounds.Max.Y - bounds.Min.Y
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - w/2 - bounds.Min.X,
		Y: fixed.I(cy) + h/2 - bounds.Max.Y,
	}
	d.DrawString(s)
}
