package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: kind (0=standard, 1=promotion, 2=en passant, 3=castle)
//
// The kind selects one of four closed variants, each with its own
// transition rule in Evolve. A castle move stores the king's path.
type Move uint16

// MoveKind is the variant tag of a Move.
type MoveKind uint8

const (
	Standard MoveKind = iota
	Promotion
	EnPassantCapture
	Castle
)

// String returns the variant name.
func (k MoveKind) String() string {
	switch k {
	case Standard:
		return "Standard"
	case Promotion:
		return "Promotion"
	case EnPassantCapture:
		return "EnPassant"
	case Castle:
		return "Castle"
	default:
		return "Unknown"
	}
}

// Move flags
const (
	FlagNormal    uint16 = uint16(Standard) << 14
	FlagPromotion uint16 = uint16(Promotion) << 14
	FlagEnPassant uint16 = uint16(EnPassantCapture) << 14
	FlagCastling  uint16 = uint16(Castle) << 14
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// The four castle moves.
const (
	WhiteKingsideCastle  = Move(E1) | Move(G1)<<6 | Move(FlagCastling)
	WhiteQueensideCastle = Move(E1) | Move(C1)<<6 | Move(FlagCastling)
	BlackKingsideCastle  = Move(E8) | Move(G8)<<6 | Move(FlagCastling)
	BlackQueensideCastle = Move(E8) | Move(C8)<<6 | Move(FlagCastling)
)

var castleMoves = [4]Move{WhiteKingsideCastle, WhiteQueensideCastle, BlackKingsideCastle, BlackQueensideCastle}

// CastleMove returns the castle move for area a.
func CastleMove(a CastleArea) Move {
	return castleMoves[a]
}

// NewMove creates a standard move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move. It panics unless promo is a
// knight, bishop, rook or queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	if promo < Knight || promo > Queen {
		panic(fmt.Sprintf("board: promotion to %s", promo))
	}
	// promo: Knight=0, Bishop=1, Rook=2, Queen=3
	promoIdx := promo - Knight
	return Move(from) | Move(to)<<6 | Move(promoIdx)<<12 | Move(FlagPromotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagEnPassant)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() uint16 {
	return uint16(m) & 0xC000
}

// Kind returns the move's variant.
func (m Move) Kind() MoveKind {
	return MoveKind(m >> 14)
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// CastleArea returns the area of a castle move, or NoCastle.
func (m Move) CastleArea() CastleArea {
	for a, cm := range castleMoves {
		if m == cm {
			return CastleArea(a)
		}
	}
	return NoCastle
}

// IsCapture returns true if this move captures a piece in s.
func (m Move) IsCapture(s *State) bool {
	if m.IsEnPassant() {
		return true
	}
	return !m.IsCastling() && s.Occupied().IsSet(m.To())
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string and resolves it against the
// moves available in s, so the returned value carries the right variant.
func ParseMove(text string, s *State) (Move, error) {
	if len(text) < 4 || len(text) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", text)
	}

	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(text) == 5 {
		switch text[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", text[4])
		}
	}

	for _, m := range s.Moves().Slice() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("move %q not available in position", text)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
