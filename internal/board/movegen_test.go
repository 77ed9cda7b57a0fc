package board

import (
	"slices"
	"testing"
)

func TestAttackMovesFilterMoves(t *testing.T) {
	tests := []struct {
		name         string
		fen          string
		castles      int
		quietPromos  int
		wantCaptures int // -1 skips the count
	}{
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 2, 0, 8},
		{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 0, 0, 1},
		{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 0, 0, -1},
		{"promotions", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1", 0, 4, -1},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", 0, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := MustParseFEN(tc.fen)
			enemy := s.SideOccupied(s.Enemy())

			var want []Move
			castles, quietPromos := 0, 0
			for _, m := range s.Moves().Slice() {
				switch {
				case m.IsCastling():
					castles++
				case m.IsEnPassant(), enemy.IsSet(m.To()):
					want = append(want, m)
				case m.IsPromotion():
					quietPromos++
				}
			}

			got := s.AttackMoves().Slice()
			if !slices.Equal(got, want) {
				t.Errorf("AttackMoves() = %v, want %v", got, want)
			}
			if castles != tc.castles {
				t.Errorf("castle moves = %d, want %d", castles, tc.castles)
			}
			if quietPromos != tc.quietPromos {
				t.Errorf("quiet promotions = %d, want %d", quietPromos, tc.quietPromos)
			}
			if tc.wantCaptures >= 0 && len(got) != tc.wantCaptures {
				t.Errorf("len(AttackMoves()) = %d, want %d", len(got), tc.wantCaptures)
			}
			for _, m := range got {
				if m.IsCastling() {
					t.Errorf("castle move %s among attack moves", m)
				}
				if m.IsPromotion() && !enemy.IsSet(m.To()) {
					t.Errorf("quiet promotion %s among attack moves", m)
				}
			}
		})
	}
}
