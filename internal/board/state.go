package board

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// State is an immutable chess position. Every transition returns a new
// State; none of the exported methods modify the receiver, so a State may
// be shared between goroutines.
type State struct {
	pieces [12]Bitboard // indexed by Piece
	meta   meta

	// recent holds the hashes of the last four states, current first.
	recent [4]uint64

	// dev marks development pieces that have not moved from their start squares.
	dev Bitboard

	// term caches Termination()+1; zero means not yet computed.
	term atomic.Uint32
}

// freshRing fills the tail of a new state's repetition ring.
var freshRing = [3]uint64{1, 2, 3}

// NewGame returns the standard starting position with White to move.
func NewGame() *State {
	return newState(StartPieces(), White, AllCastling, NoSquare, 0, StartDevelopment)
}

// newState builds a State from its parts, computing the hash, the
// positional accumulators and the phase weight from scratch.
func newState(pieces [12]Bitboard, side Color, rights CastlingRights, ep Square, clock int, dev Bitboard) *State {
	s := &State{pieces: pieces, dev: dev}

	var weight int
	for p := WhitePawn; p <= BlackKing; p++ {
		weight += pieces[p].PopCount() * PhaseWeight(p.Type())
	}

	s.meta = meta(0).
		withEndgame(EndgameTable.Sum(&s.pieces)).
		withMidgame(MidgameTable.Sum(&s.pieces)).
		withWeight(weight).
		withClock(clock).
		withSide(side).
		withEnPassant(ep).
		withStatus(NoCastling).
		withRights(rights)

	s.recent = [4]uint64{s.ComputeHash(), freshRing[0], freshRing[1], freshRing[2]}
	return s
}

// SideToMove returns the color to move.
func (s *State) SideToMove() Color {
	return s.meta.side()
}

// Enemy returns the color not to move.
func (s *State) Enemy() Color {
	return s.meta.side().Other()
}

// CastleRights returns the castle rights still held by both sides.
func (s *State) CastleRights() CastlingRights {
	return s.meta.rights()
}

// CastleStatus returns the areas already castled in.
func (s *State) CastleStatus() CastlingRights {
	return s.meta.status()
}

// HalfmoveClock returns the number of half-moves since the last capture or pawn move.
func (s *State) HalfmoveClock() int {
	return s.meta.clock()
}

// EnPassant returns the en-passant target square, or NoSquare.
func (s *State) EnPassant() Square {
	return s.meta.enPassant()
}

// PhaseWeight returns the summed phase weight of the pieces on the board.
func (s *State) PhaseWeight() int {
	return s.meta.weight()
}

// PiecePhase returns 0 for a full set of pieces, rising to MaxPhase as
// knights, bishops, rooks and queens are traded off.
func (s *State) PiecePhase() int {
	return s.meta.piecePhase()
}

// GamePhase scales PiecePhase to 0..256 for tapering.
func (s *State) GamePhase() int {
	return (s.PiecePhase()*256 + MaxPhase/2) / MaxPhase
}

// MidgameEval returns the midgame positional score from White's view.
func (s *State) MidgameEval() int {
	return int(s.meta.midgame())
}

// EndgameEval returns the endgame positional score from White's view.
func (s *State) EndgameEval() int {
	return int(s.meta.endgame())
}

// TaperedEval blends the two positional scores by game phase.
func (s *State) TaperedEval() int {
	phase := s.GamePhase()
	return (s.MidgameEval()*(256-phase) + s.EndgameEval()*phase) / 256
}

// Pieces returns the bitboard of piece p.
func (s *State) Pieces(p Piece) Bitboard {
	return s.pieces[p]
}

// PieceArray returns a copy of all twelve piece bitboards.
func (s *State) PieceArray() [12]Bitboard {
	return s.pieces
}

// SideOccupied returns every square holding a piece of color c.
func (s *State) SideOccupied(c Color) Bitboard {
	base := NewPiece(Pawn, c)
	var bb Bitboard
	for p := base; p < base+6; p++ {
		bb |= s.pieces[p]
	}
	return bb
}

// Occupied returns every occupied square.
func (s *State) Occupied() Bitboard {
	return s.SideOccupied(White) | s.SideOccupied(Black)
}

// PieceAt returns the piece on sq, or NoPiece.
func (s *State) PieceAt(sq Square) Piece {
	return pieceAt(&s.pieces, sq)
}

// PieceAtSide returns the piece of color c on sq, or NoPiece.
func (s *State) PieceAtSide(sq Square, c Color) Piece {
	bb := SquareBB(sq)
	base := NewPiece(Pawn, c)
	for p := base; p < base+6; p++ {
		if s.pieces[p]&bb != 0 {
			return p
		}
	}
	return NoPiece
}

func pieceAt(pieces *[12]Bitboard, sq Square) Piece {
	bb := SquareBB(sq)
	for p := WhitePawn; p <= BlackKing; p++ {
		if pieces[p]&bb != 0 {
			return p
		}
	}
	return NoPiece
}

// KingSquare returns the square of c's king, or NoSquare when it is missing.
func (s *State) KingSquare(c Color) Square {
	return s.pieces[NewPiece(King, c)].LSB()
}

// Hash returns the zobrist hash of the state.
func (s *State) Hash() uint64 {
	return s.recent[0]
}

// RecentHashes returns the hashes of this state and the three before it.
func (s *State) RecentHashes() [4]uint64 {
	return s.recent
}

// Development returns the development pieces still on their start squares.
func (s *State) Development() Bitboard {
	return s.dev
}

// ComputeHash recomputes the hash from scratch. It always equals Hash for
// states produced by this package.
func (s *State) ComputeHash() uint64 {
	h := defaultHasher
	return h.Pieces(&s.pieces) ^ h.Castling(s.CastleRights()) ^
		h.EnPassant(s.EnPassant()) ^ h.Side(s.SideToMove())
}

// PawnHash hashes pawn placement alone.
func (s *State) PawnHash() uint64 {
	var k uint64
	for _, p := range [2]Piece{WhitePawn, BlackPawn} {
		for bb := s.pieces[p]; bb != 0; {
			k ^= defaultHasher.Feature(bb.PopLSB(), p)
		}
	}
	return k
}

// SquaresAttackedBy returns the union of the attack sets of all pieces of c.
func (s *State) SquaresAttackedBy(c Color) Bitboard {
	return attackedBy(&s.pieces, c)
}

// InCheck reports whether the side to move's king is attacked.
func (s *State) InCheck() bool {
	us := s.SideToMove()
	ksq := s.KingSquare(us)
	if ksq == NoSquare {
		return false
	}
	return attackersTo(&s.pieces, ksq, us.Other(), s.Occupied()) != 0
}

// String returns a visual representation of the state.
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := s.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", s.SideToMove())
	fmt.Fprintf(&sb, "Castling: %s\n", s.CastleRights())
	fmt.Fprintf(&sb, "En passant: %s\n", s.EnPassant())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", s.HalfmoveClock())
	fmt.Fprintf(&sb, "Hash: %016x\n", s.Hash())
	return sb.String()
}
