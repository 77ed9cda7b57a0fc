package board

import "fmt"

// DefaultSeed seeds the package-wide hasher.
const DefaultSeed uint64 = 0x98F107A2BEEF1234

// Hasher holds the zobrist features used to hash a State. The hash covers
// piece placement, castle rights, the en-passant file and the side to move.
type Hasher struct {
	pieces    [64][12]uint64
	castle    [4]uint64
	enPassant [8]uint64
	side      uint64
	start     uint64
}

var defaultHasher = mustHasher(DefaultSeed)

func mustHasher(seed uint64) *Hasher {
	h, err := NewHasher(seed)
	if err != nil {
		panic(err)
	}
	return h
}

// DefaultHasher returns the hasher every State of this package is hashed with.
func DefaultHasher() *Hasher {
	return defaultHasher
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewHasher draws all 781 features from a xorshift64* stream seeded with
// seed. Every feature must be non-zero and unique, otherwise ErrHasherSeed
// is returned.
func NewHasher(seed uint64) (*Hasher, error) {
	rng := &prng{state: seed}
	h := &Hasher{}
	seen := make(map[uint64]struct{}, 781)

	draw := func() (uint64, error) {
		v := rng.next()
		if v == 0 {
			return 0, fmt.Errorf("seed %#x: zero feature: %w", seed, ErrHasherSeed)
		}
		if _, dup := seen[v]; dup {
			return 0, fmt.Errorf("seed %#x: duplicate feature %#x: %w", seed, v, ErrHasherSeed)
		}
		seen[v] = struct{}{}
		return v, nil
	}

	var err error
	for sq := A1; sq <= H8; sq++ {
		for p := WhitePawn; p <= BlackKing; p++ {
			if h.pieces[sq][p], err = draw(); err != nil {
				return nil, err
			}
		}
	}
	for i := range h.castle {
		if h.castle[i], err = draw(); err != nil {
			return nil, err
		}
	}
	for i := range h.enPassant {
		if h.enPassant[i], err = draw(); err != nil {
			return nil, err
		}
	}
	if h.side, err = draw(); err != nil {
		return nil, err
	}

	start := StartPieces()
	h.start = h.Pieces(&start) ^ h.Castling(AllCastling)
	return h, nil
}

// Feature returns the key for piece p standing on sq.
func (h *Hasher) Feature(sq Square, p Piece) uint64 {
	return h.pieces[sq][p]
}

// CastleFeature returns the key for a single castle right.
func (h *Hasher) CastleFeature(a CastleArea) uint64 {
	return h.castle[a]
}

// EnPassantFeature returns the key for an en-passant target on file.
func (h *Hasher) EnPassantFeature(file int) uint64 {
	return h.enPassant[file]
}

// SideToMoveFeature returns the key XORed in while Black is to move.
func (h *Hasher) SideToMoveFeature() uint64 {
	return h.side
}

// StartHash returns the hash of the standard starting position.
func (h *Hasher) StartHash() uint64 {
	return h.start
}

// Castling returns the XOR of the features of every right in cr.
func (h *Hasher) Castling(cr CastlingRights) uint64 {
	var k uint64
	for a := WhiteKingside; a <= BlackQueenside; a++ {
		if cr.Has(a) {
			k ^= h.castle[a]
		}
	}
	return k
}

// EnPassant returns the feature for sq's file, or 0 when sq is NoSquare.
func (h *Hasher) EnPassant(sq Square) uint64 {
	if sq >= NoSquare {
		return 0
	}
	return h.enPassant[sq.File()]
}

// Side returns the side feature when c is Black and 0 otherwise.
func (h *Hasher) Side(c Color) uint64 {
	if c == Black {
		return h.side
	}
	return 0
}

// Pieces returns the XOR of the features of every piece on the board.
func (h *Hasher) Pieces(pieces *[12]Bitboard) uint64 {
	var k uint64
	for p := WhitePawn; p <= BlackKing; p++ {
		for bb := pieces[p]; bb != 0; {
			k ^= h.pieces[bb.PopLSB()][p]
		}
	}
	return k
}
