// Package board implements an immutable chess board state on top of bitboards,
// together with move generation, termination detection and state transitions.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants, one rank per line.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 8*iota, 8*iota + 1, 8*iota + 2, 8*iota + 3, 8*iota + 4, 8*iota + 5, 8*iota + 6, 8*iota + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8

	// NoSquare marks an absent square, such as a missing en-passant target.
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic name of the square ("e4"), or "-" for
// NoSquare as in FEN.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses a lower-case algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%q: %w", s, ErrInvalidSquare)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// IsLight reports whether sq is a light square. a1 is dark.
func (sq Square) IsLight() bool {
	return (sq.File()+sq.Rank())&1 == 1
}

// Mirror flips sq to the same file on the opposite rank, so that tables
// written from White's side can be read for Black.
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// Forward returns the square one rank ahead of sq from c's point of view.
// The caller guarantees the result stays on the board.
func (sq Square) Forward(c Color) Square {
	return Square(int(sq) + 8*c.Orientation())
}
