package board

import "fmt"

// Termination classifies a state as finished or not.
type Termination uint8

const (
	NotTerminal Termination = iota
	WhiteWin
	BlackWin
	Draw
)

// String returns the classification name.
func (t Termination) String() string {
	switch t {
	case NotTerminal:
		return "NotTerminal"
	case WhiteWin:
		return "WhiteWin"
	case BlackWin:
		return "BlackWin"
	case Draw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the game is over.
func (t Termination) IsTerminal() bool {
	return t != NotTerminal
}

// winFor returns the win classification for c.
func winFor(c Color) Termination {
	if c == White {
		return WhiteWin
	}
	return BlackWin
}

// Termination classifies the state. The checks run in order:
//
//  1. the halfmove clock has reached DrawClock: Draw;
//  2. the side to move attacks the enemy king: the side to move wins;
//  3. the last four hashes hold fewer than three distinct values and the
//     current hash does not appear exactly twice among them: Draw;
//  4. with the piece phase at most StalematePhase and the side to move
//     not in check, every move leaves the mover's king attacked: Draw
//     (stalemate). Past that phase the search is skipped.
//
// A checkmate is therefore reported one ply late, once the mated side has
// moved and the winner can take the king. A state missing either king
// returns ErrInvariantViolation. The result is cached on the state.
func (s *State) Termination() (Termination, error) {
	if cached := s.term.Load(); cached != 0 {
		return Termination(cached - 1), nil
	}
	t, err := s.classify()
	if err != nil {
		return NotTerminal, err
	}
	s.term.Store(uint32(t) + 1)
	return t, nil
}

func (s *State) classify() (Termination, error) {
	if s.HalfmoveClock() >= DrawClock {
		return Draw, nil
	}

	us, them := s.SideToMove(), s.Enemy()
	for _, c := range [2]Color{us, them} {
		if s.KingSquare(c) == NoSquare {
			return NotTerminal, fmt.Errorf("%s king missing: %w", c, ErrInvariantViolation)
		}
	}
	if s.SquaresAttackedBy(us).IsSet(s.KingSquare(them)) {
		return winFor(us), nil
	}

	if s.repeated() {
		return Draw, nil
	}

	if s.PiecePhase() <= StalematePhase && !s.InCheck() && s.stalemated() {
		return Draw, nil
	}
	return NotTerminal, nil
}

// repeated applies the repetition rule to the four-slot hash ring.
func (s *State) repeated() bool {
	distinct, same := 0, 0
	for i, h := range s.recent {
		if h == s.recent[0] {
			same++
		}
		seen := false
		for _, prev := range s.recent[:i] {
			seen = seen || prev == h
		}
		if !seen {
			distinct++
		}
	}
	return distinct < 3 && same != 2
}

// stalemated reports whether every pseudo-legal move leaves the mover's king
// attacked, including the case of no moves at all.
func (s *State) stalemated() bool {
	for _, m := range s.Moves().Slice() {
		if !s.leavesKingAttacked(m) {
			return false
		}
	}
	return true
}
