package board

import (
	"fmt"
	"strings"
)

// Wing selects the side of the board a castle command refers to.
type Wing uint8

const (
	NoWing Wing = iota
	Kingside
	Queenside
)

// Command is a parsed, side-agnostic move descriptor such as the one
// written as "Nbd7", "exd6" or "O-O". It names what moves and where, and
// GenerateMove resolves it against a State.
type Command struct {
	Piece     PieceType
	Target    Square
	FromFile  int // origin file hint, -1 when absent
	FromRank  int // origin rank hint, -1 when absent
	Attack    bool
	Promotion bool
	PromoteTo PieceType
	Castle    Wing
}

// NewCommand returns a descriptor moving a piece of type pt to target with
// no origin hints.
func NewCommand(pt PieceType, target Square) Command {
	return Command{
		Piece:     pt,
		Target:    target,
		FromFile:  -1,
		FromRank:  -1,
		PromoteTo: NoPieceType,
	}
}

// CastleCommand returns a descriptor for castling on the given wing.
func CastleCommand(w Wing) Command {
	c := NewCommand(King, NoSquare)
	c.Castle = w
	return c
}

// String renders the descriptor for error messages.
func (c Command) String() string {
	switch c.Castle {
	case Kingside:
		return "O-O"
	case Queenside:
		return "O-O-O"
	}
	var sb strings.Builder
	if c.Piece != Pawn {
		sb.WriteByte(c.Piece.Letter())
	}
	if c.FromFile >= 0 {
		sb.WriteByte(byte('a' + c.FromFile))
	}
	if c.FromRank >= 0 {
		sb.WriteByte(byte('1' + c.FromRank))
	}
	if c.Attack {
		sb.WriteByte('x')
	}
	sb.WriteString(c.Target.String())
	if c.Promotion {
		sb.WriteByte('=')
		sb.WriteByte(c.PromoteTo.Letter())
	}
	return sb.String()
}

func (c Command) matchesOrigin(from Square) bool {
	return (c.FromFile < 0 || from.File() == c.FromFile) &&
		(c.FromRank < 0 || from.Rank() == c.FromRank)
}

// GenerateMove resolves cmd to a move of the side to move. Castle and
// promotion commands map directly; a pawn capture onto an empty square is
// taken as en passant. Other commands are matched against the standard
// moves of the state; when two pieces fit, the one that is not pinned to
// its king is chosen. Anything else that fails to single out one move
// returns ErrAmbiguousCommand.
func (s *State) GenerateMove(cmd Command) (Move, error) {
	us := s.SideToMove()
	switch {
	case cmd.Castle != NoWing:
		return CastleMove(CastleAreaFor(us, cmd.Castle == Kingside)), nil
	case cmd.Promotion:
		return s.resolvePromotion(cmd)
	case cmd.Attack && s.PieceAtSide(cmd.Target, s.Enemy()) == NoPiece:
		return s.resolveEnPassant(cmd)
	}
	return s.resolveStandard(cmd)
}

func ambiguous(cmd Command, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", cmd, fmt.Sprintf(format, args...), ErrAmbiguousCommand)
}

func (s *State) resolvePromotion(cmd Command) (Move, error) {
	switch cmd.PromoteTo {
	case Knight, Bishop, Rook, Queen:
	default:
		return NoMove, ambiguous(cmd, "cannot promote to %s", cmd.PromoteTo)
	}

	us := s.SideToMove()
	pawn := NewPiece(Pawn, us)
	friendly, enemy := s.SideOccupied(us), s.SideOccupied(us.Other())

	var origins []Square
	for pawns := s.pieces[pawn]; pawns != 0; {
		from := pawns.PopLSB()
		if cmd.matchesOrigin(from) && Moveset(pawn, from, friendly, enemy).IsSet(cmd.Target) {
			origins = append(origins, from)
		}
	}
	if len(origins) != 1 {
		return NoMove, ambiguous(cmd, "%d pawns can promote there", len(origins))
	}
	return NewPromotion(origins[0], cmd.Target, cmd.PromoteTo), nil
}

func (s *State) resolveEnPassant(cmd Command) (Move, error) {
	us := s.SideToMove()
	if cmd.Piece != Pawn {
		return NoMove, ambiguous(cmd, "no enemy piece on %s", cmd.Target)
	}
	if cmd.FromFile < 0 {
		return NoMove, ambiguous(cmd, "en passant needs the origin file")
	}
	if cmd.Target != s.EnPassant() {
		return NoMove, ambiguous(cmd, "%s is not the en passant square", cmd.Target)
	}
	from := NewSquare(cmd.FromFile, cmd.Target.Rank()-us.Orientation())
	if !s.pieces[NewPiece(Pawn, us)].IsSet(from) {
		return NoMove, ambiguous(cmd, "no pawn on %s", from)
	}
	return NewEnPassant(from, cmd.Target), nil
}

func (s *State) resolveStandard(cmd Command) (Move, error) {
	us := s.SideToMove()
	var candidates []Move
	for _, m := range s.Moves().Slice() {
		if m.Kind() != Standard || m.To() != cmd.Target || !cmd.matchesOrigin(m.From()) {
			continue
		}
		if s.PieceAtSide(m.From(), us).Type() == cmd.Piece {
			candidates = append(candidates, m)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 2:
		first, second := s.pinned(candidates[0].From()), s.pinned(candidates[1].From())
		if first == second {
			return NoMove, ambiguous(cmd, "both %s and %s can move", candidates[0], candidates[1])
		}
		if first {
			return candidates[1], nil
		}
		return candidates[0], nil
	default:
		return NoMove, ambiguous(cmd, "%d matching moves", len(candidates))
	}
}
