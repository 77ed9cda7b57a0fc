package board

import (
	"errors"
	"testing"
)

func TestSquareNames(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", sq.String(), err)
		}
		if got != sq {
			t.Errorf("ParseSquare(%q) = %d, want %d", sq.String(), got, sq)
		}
	}

	tests := []struct {
		sq   Square
		name string
	}{
		{A1, "a1"},
		{H1, "h1"},
		{E4, "e4"},
		{A8, "a8"},
		{H8, "h8"},
		{NoSquare, "-"},
	}
	for _, tc := range tests {
		if got := tc.sq.String(); got != tc.name {
			t.Errorf("Square(%d).String() = %q, want %q", tc.sq, got, tc.name)
		}
	}
}

func TestParseSquareErrors(t *testing.T) {
	for _, s := range []string{"", "e", "e44", "i1", "a0", "a9", "E4", "-"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestSquareGeometry(t *testing.T) {
	tests := []struct {
		sq       Square
		light    bool
		mirror   Square
		forwardW Square
		forwardB Square
	}{
		{A1, false, A8, A2, NoSquare},
		{H1, true, H8, H2, NoSquare},
		{D4, false, D5, D5, D3},
		{E4, true, E5, E5, E3},
		{H8, false, H1, NoSquare, H7},
	}
	for _, tc := range tests {
		t.Run(tc.sq.String(), func(t *testing.T) {
			if got := tc.sq.IsLight(); got != tc.light {
				t.Errorf("IsLight() = %v, want %v", got, tc.light)
			}
			if got := tc.sq.Mirror(); got != tc.mirror {
				t.Errorf("Mirror() = %s, want %s", got, tc.mirror)
			}
			if tc.forwardW != NoSquare {
				if got := tc.sq.Forward(White); got != tc.forwardW {
					t.Errorf("Forward(White) = %s, want %s", got, tc.forwardW)
				}
			}
			if tc.forwardB != NoSquare {
				if got := tc.sq.Forward(Black); got != tc.forwardB {
					t.Errorf("Forward(Black) = %s, want %s", got, tc.forwardB)
				}
			}
		})
	}
}
