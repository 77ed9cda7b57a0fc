package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	pawnPushes    [2][64]Bitboard // [Color][Square] - single push targets

	// Between and Line bitboards for pins/checks
	betweenBB [64][64]Bitboard // Squares strictly between two squares
	lineBB    [64][64]Bitboard // Full line through two squares (including endpoints)
)

// pawnStartRank is the rank each color's pawns may double push from.
var pawnStartRank = [2]Bitboard{Rank2, Rank7}

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initLines()
	if err := bishopSlider.build(&bishopMagicNumbers); err != nil {
		panic(err)
	}
	if err := rookSlider.build(&rookMagicNumbers); err != nil {
		panic(err)
	}
}

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

// initLines fills the between and line tables for every pair of squares
// sharing a rank, file or diagonal.
func initLines() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			if sq1 == sq2 {
				continue
			}
			f1, r1 := sq1.File(), sq1.Rank()
			f2, r2 := sq2.File(), sq2.Rank()
			df, dr := sign(f2-f1), sign(r2-r1)
			if df != 0 && dr != 0 && abs(f2-f1) != abs(r2-r1) {
				continue
			}

			var between Bitboard
			for f, r := f1+df, r1+dr; f != f2 || r != r2; f, r = f+df, r+dr {
				between |= SquareBB(NewSquare(f, r))
			}
			betweenBB[sq1][sq2] = between
			lineBB[sq1][sq2] = ray(sq1, df, dr, 0) | ray(sq1, -df, -dr, 0) | SquareBB(sq1)
		}
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnPushes returns the pawn push target bitboard for a square and color.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return bishopSlider.attacks(sq, occupied)
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rookSlider.attacks(sq, occupied)
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}

// attackFuncs dispatches attack lookup by piece type.
var attackFuncs = [6]func(sq Square, c Color, occupied Bitboard) Bitboard{
	Pawn:   func(sq Square, c Color, _ Bitboard) Bitboard { return pawnAttacks[c][sq] },
	Knight: func(sq Square, _ Color, _ Bitboard) Bitboard { return knightAttacks[sq] },
	Bishop: func(sq Square, _ Color, occ Bitboard) Bitboard { return BishopAttacks(sq, occ) },
	Rook:   func(sq Square, _ Color, occ Bitboard) Bitboard { return RookAttacks(sq, occ) },
	Queen:  func(sq Square, _ Color, occ Bitboard) Bitboard { return QueenAttacks(sq, occ) },
	King:   func(sq Square, _ Color, _ Bitboard) Bitboard { return kingAttacks[sq] },
}

// Attacks returns the squares a piece standing on sq attacks, given the
// board occupancy. For pawns only the diagonal captures count.
func Attacks(p Piece, sq Square, occupied Bitboard) Bitboard {
	return attackFuncs[p.Type()](sq, p.Color(), occupied)
}

// Moveset returns the squares a piece on sq may move to. Non-pawns reach
// every attacked square not held by a friendly piece. Pawns capture only
// onto enemy pieces and push forward one square, or two from their start
// rank when both squares are empty.
func Moveset(p Piece, sq Square, friendly, enemy Bitboard) Bitboard {
	occupied := friendly | enemy
	c := p.Color()
	if p.Type() != Pawn {
		return Attacks(p, sq, occupied) &^ friendly
	}

	moves := pawnAttacks[c][sq] & enemy
	push := pawnPushes[c][sq] &^ occupied
	moves |= push
	if push != 0 && pawnStartRank[c].IsSet(sq) {
		moves |= pawnPushes[c][push.LSB()] &^ occupied
	}
	return moves
}

// attackedBy returns the union of attack sets of every piece of color c.
func attackedBy(pieces *[12]Bitboard, c Color) Bitboard {
	var occupied Bitboard
	for _, bb := range pieces {
		occupied |= bb
	}

	var attacks Bitboard
	base := NewPiece(Pawn, c)
	for p := base; p < base+6; p++ {
		for bb := pieces[p]; bb != 0; {
			attacks |= Attacks(p, bb.PopLSB(), occupied)
		}
	}
	return attacks
}

// attackersTo returns the pieces of color c attacking sq.
func attackersTo(pieces *[12]Bitboard, sq Square, c Color, occupied Bitboard) Bitboard {
	base := NewPiece(Pawn, c)
	return (pawnAttacks[c.Other()][sq] & pieces[base+Piece(Pawn)]) |
		(knightAttacks[sq] & pieces[base+Piece(Knight)]) |
		(kingAttacks[sq] & pieces[base+Piece(King)]) |
		(BishopAttacks(sq, occupied) & (pieces[base+Piece(Bishop)] | pieces[base+Piece(Queen)])) |
		(RookAttacks(sq, occupied) & (pieces[base+Piece(Rook)] | pieces[base+Piece(Queen)]))
}
