package board

// castlePath describes the squares a castle move needs: those that must be
// empty and those the king stands on or crosses, which must not be attacked.
type castlePath struct {
	king, rook        Square
	rookTo            Square
	empty, unattacked Bitboard
}

var castlePaths = [4]castlePath{
	WhiteKingside: {
		king:       E1,
		rook:       H1,
		rookTo:     F1,
		empty:      SquareBB(F1) | SquareBB(G1),
		unattacked: SquareBB(E1) | SquareBB(F1) | SquareBB(G1),
	},
	WhiteQueenside: {
		king:       E1,
		rook:       A1,
		rookTo:     D1,
		empty:      SquareBB(B1) | SquareBB(C1) | SquareBB(D1),
		unattacked: SquareBB(E1) | SquareBB(D1) | SquareBB(C1),
	},
	BlackKingside: {
		king:       E8,
		rook:       H8,
		rookTo:     F8,
		empty:      SquareBB(F8) | SquareBB(G8),
		unattacked: SquareBB(E8) | SquareBB(F8) | SquareBB(G8),
	},
	BlackQueenside: {
		king:       E8,
		rook:       A8,
		rookTo:     D8,
		empty:      SquareBB(B8) | SquareBB(C8) | SquareBB(D8),
		unattacked: SquareBB(E8) | SquareBB(D8) | SquareBB(C8),
	},
}

// castleRookSquares returns where the rook starts and ends for area a.
func castleRookSquares(a CastleArea) (from, to Square) {
	return castlePaths[a].rook, castlePaths[a].rookTo
}

// pieceOrder is the order non-pawn pieces are enumerated in.
var pieceOrder = [5]PieceType{King, Queen, Rook, Bishop, Knight}

// promotionOrder is the order promotion moves are enumerated in.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// Moves returns every pseudo-legal move for the side to move: castle
// moves first, then king, queen, rook, bishop and knight moves, then pawn
// moves. Moves that leave the mover's king attacked are included.
func (s *State) Moves() *MoveList {
	ml := NewMoveList()
	s.castleMoves(ml)
	s.generate(ml, false)
	return ml
}

// AttackMoves returns the pseudo-legal moves that capture an enemy piece,
// en-passant captures included.
func (s *State) AttackMoves() *MoveList {
	ml := NewMoveList()
	s.generate(ml, true)
	return ml
}

// LegalMoves returns the moves of Moves that do not leave the mover's king
// attacked.
func (s *State) LegalMoves() *MoveList {
	ml := NewMoveList()
	for _, m := range s.Moves().Slice() {
		if !s.leavesKingAttacked(m) {
			ml.Add(m)
		}
	}
	return ml
}

func (s *State) generate(ml *MoveList, capturesOnly bool) {
	us := s.SideToMove()
	friendly, enemy := s.SideOccupied(us), s.SideOccupied(us.Other())

	for _, pt := range pieceOrder {
		p := NewPiece(pt, us)
		for pieces := s.pieces[p]; pieces != 0; {
			from := pieces.PopLSB()
			targets := Moveset(p, from, friendly, enemy)
			if capturesOnly {
				targets &= enemy
			}
			for targets != 0 {
				ml.Add(NewMove(from, targets.PopLSB()))
			}
		}
	}

	pawn := NewPiece(Pawn, us)
	ep := s.EnPassant()
	for pawns := s.pieces[pawn]; pawns != 0; {
		from := pawns.PopLSB()
		targets := Moveset(pawn, from, friendly, enemy)
		if capturesOnly {
			targets &= enemy
		}

		standard := targets &^ (Rank1 | Rank8)
		for standard != 0 {
			ml.Add(NewMove(from, standard.PopLSB()))
		}
		promotions := targets & (Rank1 | Rank8)
		for promotions != 0 {
			to := promotions.PopLSB()
			for _, pt := range promotionOrder {
				ml.Add(NewPromotion(from, to, pt))
			}
		}
		if ep != NoSquare && PawnAttacks(from, us).IsSet(ep) {
			ml.Add(NewEnPassant(from, ep))
		}
	}
}

// castleMoves adds the castle moves currently allowed for the side to move.
func (s *State) castleMoves(ml *MoveList) {
	us := s.SideToMove()
	var enemyAttacks Bitboard
	computed := false

	for _, wing := range [2]bool{true, false} {
		a := CastleAreaFor(us, wing)
		if !s.castlePossible(a) {
			continue
		}
		if !computed {
			enemyAttacks = s.SquaresAttackedBy(us.Other())
			computed = true
		}
		if enemyAttacks&castlePaths[a].unattacked == 0 {
			ml.Add(CastleMove(a))
		}
	}
}

// castlePossible checks everything about castling in area a except attacks:
// the area has not been used, the right is held, king and rook stand on
// their squares and the squares between them are empty.
func (s *State) castlePossible(a CastleArea) bool {
	if s.CastleStatus().Has(a) || !s.CastleRights().Has(a) {
		return false
	}
	path := castlePaths[a]
	c := a.Color()
	if !s.pieces[NewPiece(King, c)].IsSet(path.king) || !s.pieces[NewPiece(Rook, c)].IsSet(path.rook) {
		return false
	}
	return s.Occupied()&path.empty == 0
}
