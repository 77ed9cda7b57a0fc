package board

import "fmt"

// Magic bitboards for sliding piece attacks. Every (square, occupancy) pair
// maps through a multiply-and-shift onto a slot of a shared attack table.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64   // Magic multiplier
	Shift  uint8    // Bits to shift right
	Offset uint32   // Index into attack table
}

// slider describes one family of sliding attacks (bishop or rook).
type slider struct {
	name   string
	magics [64]Magic
	table  []Bitboard
	mask   func(Square) Bitboard
	slow   func(Square, Bitboard) Bitboard
}

var (
	bishopSlider = &slider{name: "bishop", mask: bishopMask, slow: bishopAttacksSlow}
	rookSlider   = &slider{name: "rook", mask: rookMask, slow: rookAttacksSlow}
)

var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

// build fills the attack table for every square. A magic that maps two
// occupancies with different attack sets onto one slot is reported as an error.
func (s *slider) build(numbers *[64]uint64) error {
	var offset uint32
	for sq := A1; sq <= H8; sq++ {
		mask := s.mask(sq)
		n := mask.PopCount()
		s.magics[sq] = Magic{
			Mask:   mask,
			Magic:  numbers[sq],
			Shift:  uint8(64 - n),
			Offset: offset,
		}
		offset += 1 << n
	}

	s.table = make([]Bitboard, offset)
	filled := make([]bool, offset)

	for sq := A1; sq <= H8; sq++ {
		m := &s.magics[sq]
		n := 64 - int(m.Shift)
		for i := 0; i < 1<<n; i++ {
			occ := indexToOccupancy(i, n, m.Mask)
			slot := m.Offset + uint32((uint64(occ)*m.Magic)>>m.Shift)
			attacks := s.slow(sq, occ)
			if filled[slot] && s.table[slot] != attacks {
				return fmt.Errorf("%s magic for %s collides", s.name, sq)
			}
			s.table[slot] = attacks
			filled[slot] = true
		}
	}
	return nil
}

// attacks looks up the sliding attacks from sq for the given occupancy.
func (s *slider) attacks(sq Square, occupied Bitboard) Bitboard {
	m := &s.magics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift
	return s.table[m.Offset+uint32(idx)]
}

// bishopMask returns the relevant occupancy mask for bishop at square.
// Excludes edge squares since they don't affect the result.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) &^ (Rank1 | Rank8 | FileA | FileH)
}

// rookMask returns the relevant occupancy mask for rook at square.
func rookMask(sq Square) Bitboard {
	file, rank := sq.File(), sq.Rank()

	var mask Bitboard
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}
	return mask
}

// indexToOccupancy spreads the low bits of index over the set bits of mask.
func indexToOccupancy(index, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// ray walks from sq in direction (df, dr) until the board edge or the first
// occupied square, which is included.
func ray(sq Square, df, dr int, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for f, r := sq.File()+df, sq.Rank()+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
		s := SquareBB(NewSquare(f, r))
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	return attacks
}

// bishopAttacksSlow computes bishop attacks by ray casting (used during initialization).
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return ray(sq, 1, 1, occupied) | ray(sq, -1, 1, occupied) |
		ray(sq, 1, -1, occupied) | ray(sq, -1, -1, occupied)
}

// rookAttacksSlow computes rook attacks by ray casting (used during initialization).
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return ray(sq, 0, 1, occupied) | ray(sq, 0, -1, occupied) |
		ray(sq, 1, 0, occupied) | ray(sq, -1, 0, occupied)
}
