package board

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodedSize is the length of a State's binary encoding: twelve piece
// bitboards, the metadata word, four recent hashes and the development mask.
const EncodedSize = (12 + 1 + 4 + 1) * 8

// encoded mirrors the binary layout of a State.
type encoded struct {
	Pieces [12]uint64
	Meta   uint64
	Recent [4]uint64
	Dev    uint64
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
// All words are written big-endian.
func (s *State) MarshalBinary() ([]byte, error) {
	e := encoded{Meta: uint64(s.meta), Recent: s.recent, Dev: uint64(s.dev)}
	for i, bb := range s.pieces {
		e.Pieces[i] = uint64(bb)
	}
	buf := new(bytes.Buffer)
	buf.Grow(EncodedSize)
	if err := binary.Write(buf, binary.BigEndian, &e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. It
// must only be called on a new, unshared State; prefer DecodeState.
func (s *State) UnmarshalBinary(data []byte) error {
	d, err := DecodeState(data)
	if err != nil {
		return err
	}
	s.pieces, s.meta, s.recent, s.dev = d.pieces, d.meta, d.recent, d.dev
	s.term.Store(0)
	return nil
}

// DecodeState decodes a State written by MarshalBinary. Encodings with
// overlapping piece bitboards, a bad en-passant field, or a hash, score or
// phase weight that disagrees with the pieces return ErrCorruptState.
func DecodeState(data []byte) (*State, error) {
	if len(data) != EncodedSize {
		return nil, fmt.Errorf("got %d bytes, want %d: %w", len(data), EncodedSize, ErrCorruptState)
	}
	var e encoded
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &e); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptState)
	}

	s := &State{meta: meta(e.Meta), recent: e.Recent, dev: Bitboard(e.Dev)}
	var seen Bitboard
	for i, w := range e.Pieces {
		bb := Bitboard(w)
		if seen&bb != 0 {
			return nil, fmt.Errorf("%s overlaps other pieces: %w", Piece(i), ErrCorruptState)
		}
		seen |= bb
		s.pieces[i] = bb
	}
	if !s.meta.valid() {
		return nil, fmt.Errorf("bad en passant field: %w", ErrCorruptState)
	}

	ref := newState(s.pieces, s.SideToMove(), s.CastleRights(), s.EnPassant(), s.HalfmoveClock(), s.dev)
	switch {
	case ref.Hash() != s.Hash():
		return nil, fmt.Errorf("hash mismatch: %w", ErrCorruptState)
	case ref.meta.weight() != s.meta.weight():
		return nil, fmt.Errorf("phase weight mismatch: %w", ErrCorruptState)
	case ref.meta.midgame() != s.meta.midgame() || ref.meta.endgame() != s.meta.endgame():
		return nil, fmt.Errorf("positional score mismatch: %w", ErrCorruptState)
	}
	return s, nil
}
