package board

import (
	"errors"
	"testing"
)

func TestCheckmateIsReportedOnePlyLate(t *testing.T) {
	// Back rank mate: Black to move, in check, no legal reply.
	s, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !s.InCheck() {
		t.Fatal("expected Black in check")
	}
	if n := s.LegalMoves().Len(); n != 0 {
		t.Fatalf("Black has %d legal moves, want 0", n)
	}
	term, err := s.Termination()
	if err != nil {
		t.Fatal(err)
	}
	if term != NotTerminal {
		t.Errorf("Termination() = %s, want NotTerminal", term)
	}

	// Whatever Black plays, White can take the king.
	for _, m := range s.Moves().Slice() {
		next, err := s.Apply(m)
		if err != nil {
			t.Fatalf("apply %s: %v", m, err)
		}
		term, err := next.Termination()
		if err != nil {
			t.Fatal(err)
		}
		if term != WhiteWin {
			t.Errorf("after %s: Termination() = %s, want WhiteWin", m, term)
		}
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the checking rook.
	s, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if !s.LegalMoves().Contains(NewMove(H8, G8)) {
		t.Errorf("Kxg8 missing from legal moves")
	}
	if term, _ := s.Termination(); term != NotTerminal {
		t.Errorf("Termination() = %s, want NotTerminal", term)
	}
}

func TestTermination(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Termination
	}{
		{"start", StartFEN, NotTerminal},
		{"clock", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80", Draw},
		{"clock below limit", "4k3/8/8/8/8/8/8/R3K3 w - - 99 80", NotTerminal},
		{"white takes king", "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1", WhiteWin},
		{"black takes king", "4k3/4r3/8/8/8/8/8/4K3 b - - 0 1", BlackWin},
		{"mobile king", "7k/8/6K1/8/8/8/8/8 b - - 0 1", NotTerminal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := MustParseFEN(tc.fen)
			got, err := s.Termination()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Termination() = %s, want %s", got, tc.want)
			}
			// Second call hits the cache and must agree.
			if again, _ := s.Termination(); again != got {
				t.Errorf("cached Termination() = %s, want %s", again, got)
			}
		})
	}
}

func TestStalemateSearchPhase(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		phase int
		want  Termination
	}{
		{"full material", "7k/5Q2/6K1/8/8/8/8/RNBQ1BN1 b - - 0 1", 10, Draw},
		{"at threshold", "k7/2Q5/1K6/8/8/8/8/1R4BR b - - 0 1", 15, Draw},
		{"past threshold", "k7/2Q5/1K6/8/8/8/8/1R5R b - - 0 1", 16, NotTerminal},
		{"queen only", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 20, NotTerminal},
		{"bare kings and pawn", "k7/P7/1K6/8/8/8/8/8 b - - 0 1", 24, NotTerminal},
		{"mobile king with material", "7k/8/6K1/8/8/8/8/RNBQ1BN1 b - - 0 1", 14, NotTerminal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := MustParseFEN(tc.fen)
			if got := s.PiecePhase(); got != tc.phase {
				t.Fatalf("PiecePhase() = %d, want %d", got, tc.phase)
			}
			if s.InCheck() {
				t.Fatalf("side to move is in check")
			}
			got, err := s.Termination()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Termination() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRepetitionWindow(t *testing.T) {
	const h, x, y = 0xAAAA, 0xBBBB, 0xCCCC
	tests := []struct {
		name string
		ring [4]uint64
		want Termination
	}{
		{"all distinct", [4]uint64{h, x, y, 1}, NotTerminal},
		{"current occurs three times", [4]uint64{h, h, x, h}, Draw},
		{"current occurs twice in two values", [4]uint64{h, x, h, x}, NotTerminal},
		{"two values, current once", [4]uint64{h, x, x, x}, Draw},
		{"all equal", [4]uint64{h, h, h, h}, Draw},
		{"three distinct values", [4]uint64{h, x, h, y}, NotTerminal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := NewGame()
			s := newState(base.PieceArray(), White, AllCastling, NoSquare, 0, StartDevelopment)
			s.recent = tc.ring
			got, err := s.Termination()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ring %x: Termination() = %s, want %s", tc.ring, got, tc.want)
			}
		})
	}
}

func TestTerminationMissingKing(t *testing.T) {
	pieces := StartPieces()
	pieces[BlackKing] = 0
	s := newState(pieces, White, NoCastling, NoSquare, 0, 0)
	if _, err := s.Termination(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Termination() error = %v, want ErrInvariantViolation", err)
	}
}
