package board

import (
	"errors"
	"testing"
)

func TestNewHasherRejectsZeroSeed(t *testing.T) {
	if _, err := NewHasher(0); !errors.Is(err, ErrHasherSeed) {
		t.Errorf("NewHasher(0) error = %v, want ErrHasherSeed", err)
	}
}

func TestHasherFeaturesDistinct(t *testing.T) {
	h := DefaultHasher()
	seen := make(map[uint64]string)
	add := func(k uint64, name string) {
		if k == 0 {
			t.Errorf("%s is zero", name)
		}
		if prev, dup := seen[k]; dup {
			t.Errorf("%s duplicates %s", name, prev)
		}
		seen[k] = name
	}
	for sq := A1; sq <= H8; sq++ {
		for p := WhitePawn; p <= BlackKing; p++ {
			add(h.Feature(sq, p), p.String()+sq.String())
		}
	}
	for a := WhiteKingside; a <= BlackQueenside; a++ {
		add(h.CastleFeature(a), "castle")
	}
	for f := 0; f < 8; f++ {
		add(h.EnPassantFeature(f), "ep")
	}
	add(h.SideToMoveFeature(), "side")
	if len(seen) != 781 {
		t.Errorf("got %d features, want 781", len(seen))
	}
}

func TestHasherDeterministic(t *testing.T) {
	a, err := NewHasher(DefaultSeed)
	if err != nil {
		t.Fatal(err)
	}
	if a.StartHash() != DefaultHasher().StartHash() {
		t.Errorf("same seed gave different start hash")
	}
	b, err := NewHasher(DefaultSeed + 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.StartHash() == b.StartHash() {
		t.Errorf("different seeds gave the same start hash")
	}
}

func TestHashTracksSideAndTransposition(t *testing.T) {
	// Nf3 Nf6 Nc3 and Nc3 Nf6 Nf3 reach the same position.
	play := func(moves ...Move) *State {
		s := NewGame()
		for _, m := range moves {
			var err error
			if s, err = s.Apply(m); err != nil {
				t.Fatal(err)
			}
		}
		return s
	}
	a := play(NewMove(G1, F3), NewMove(G8, F6), NewMove(B1, C3))
	b := play(NewMove(B1, C3), NewMove(G8, F6), NewMove(G1, F3))
	if a.Hash() != b.Hash() {
		t.Errorf("transposed positions hash differently")
	}

	// Same placement, different side to move.
	w := MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	bl := MustParseFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	if w.Hash()^bl.Hash() != DefaultHasher().SideToMoveFeature() {
		t.Errorf("side to move not hashed by its feature")
	}
}
