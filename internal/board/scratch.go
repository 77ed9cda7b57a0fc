package board

// scratch is a throwaway copy of a state's piece array used to try out a
// move or a removal and ask whether a king ends up attacked. It lives on
// the stack and never touches the State it was taken from.
type scratch struct {
	pieces [12]Bitboard
}

func newScratch(s *State) scratch {
	return scratch{pieces: s.pieces}
}

// remove takes whatever piece stands on sq off the board.
func (v *scratch) remove(sq Square) {
	bb := SquareBB(sq)
	for p := range v.pieces {
		v.pieces[p] &^= bb
	}
}

// apply plays m for side us on the piece array only (no validation).
func (v *scratch) apply(m Move, us Color) {
	from, to := m.From(), m.To()
	fromBB, toBB := SquareBB(from), SquareBB(to)

	mover := NoPiece
	base := NewPiece(Pawn, us)
	for p := base; p < base+6; p++ {
		if v.pieces[p]&fromBB != 0 {
			mover = p
			break
		}
	}
	if mover == NoPiece {
		return
	}

	v.remove(to)
	v.pieces[mover] &^= fromBB

	switch m.Kind() {
	case Promotion:
		v.pieces[NewPiece(m.Promotion(), us)] |= toBB
	case EnPassantCapture:
		v.pieces[mover] |= toBB
		v.pieces[NewPiece(Pawn, us.Other())] &^= SquareBB(Square(int(to) - 8*us.Orientation()))
	case Castle:
		v.pieces[mover] |= toBB
		rookFrom, rookTo := castleRookSquares(m.CastleArea())
		v.pieces[NewPiece(Rook, us)] ^= SquareBB(rookFrom) | SquareBB(rookTo)
	default:
		v.pieces[mover] |= toBB
	}
}

// kingAttacked reports whether c's king is attacked by the other side.
// A missing king is never attacked.
func (v *scratch) kingAttacked(c Color) bool {
	ksq := v.pieces[NewPiece(King, c)].LSB()
	if ksq == NoSquare {
		return false
	}
	var occupied Bitboard
	for _, bb := range v.pieces {
		occupied |= bb
	}
	return attackersTo(&v.pieces, ksq, c.Other(), occupied) != 0
}

// leavesKingAttacked reports whether playing m in s exposes the mover's king.
func (s *State) leavesKingAttacked(m Move) bool {
	us := s.SideToMove()
	v := newScratch(s)
	v.apply(m, us)
	return v.kingAttacked(us)
}

// pinned reports whether lifting the piece on sq exposes the mover's king.
func (s *State) pinned(sq Square) bool {
	v := newScratch(s)
	v.remove(sq)
	return v.kingAttacked(s.SideToMove())
}
