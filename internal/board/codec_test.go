package board

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	s := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	walk(t, s, 40, 7, func(s *State) {
		data, err := s.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != EncodedSize {
			t.Fatalf("encoded %d bytes, want %d", len(data), EncodedSize)
		}
		got, err := DecodeState(data)
		if err != nil {
			t.Fatalf("DecodeState: %v", err)
		}
		if got.PieceArray() != s.PieceArray() || got.meta != s.meta ||
			got.RecentHashes() != s.RecentHashes() || got.Development() != s.Development() {
			t.Fatalf("round trip mismatch for %s", s.ToFEN())
		}

		var into State
		if err := into.UnmarshalBinary(data); err != nil {
			t.Fatal(err)
		}
		if into.ToFEN() != s.ToFEN() {
			t.Fatalf("UnmarshalBinary = %s, want %s", into.ToFEN(), s.ToFEN())
		}
	})
}

func TestDecodeCorrupt(t *testing.T) {
	good, err := NewGame().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	corrupt := func(f func([]byte)) []byte {
		b := append([]byte(nil), good...)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:EncodedSize-1]},
		{"overlap", corrupt(func(b []byte) {
			// Put a white knight on a2, where a white pawn stands.
			off := int(WhiteKnight) * 8
			binary.BigEndian.PutUint64(b[off:], uint64(StartPieces()[WhiteKnight]|SquareBB(A2)))
		})},
		{"en passant sentinel", corrupt(func(b []byte) {
			m := meta(binary.BigEndian.Uint64(b[96:])).with(epShift, mask7, 100)
			binary.BigEndian.PutUint64(b[96:], uint64(m))
		})},
		{"hash", corrupt(func(b []byte) {
			b[104] ^= 0xFF
		})},
		{"weight", corrupt(func(b []byte) {
			m := meta(binary.BigEndian.Uint64(b[96:])).withWeight(10)
			binary.BigEndian.PutUint64(b[96:], uint64(m))
		})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeState(tc.data); !errors.Is(err, ErrCorruptState) {
				t.Errorf("DecodeState error = %v, want ErrCorruptState", err)
			}
		})
	}
}
