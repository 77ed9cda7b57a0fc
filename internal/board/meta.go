package board

// Game-rule constants.
const (
	// MaxPhase is the total phase weight of the starting position.
	MaxPhase = 24

	// DrawClock is the halfmove clock value at which the game is drawn.
	DrawClock = 100

	// StalematePhase is the highest piece phase at which the termination
	// check searches for stalemate.
	StalematePhase = 15
)

// CastlingRights is a set of castle areas, one bit per area in KQkq order.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b []byte
	for a := WhiteKingside; a <= BlackQueenside; a++ {
		if cr.Has(a) {
			b = append(b, "KQkq"[a])
		}
	}
	return string(b)
}

// Has reports whether the area's bit is set.
func (cr CastlingRights) Has(a CastleArea) bool {
	return cr&a.Bit() != 0
}

// ForColor returns the subset of cr belonging to c.
func (cr CastlingRights) ForColor(c Color) CastlingRights {
	return cr & (CastleAreaFor(c, true).Bit() | CastleAreaFor(c, false).Bit())
}

// CastleArea identifies one of the four castle moves.
type CastleArea uint8

const (
	WhiteKingside CastleArea = iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
	NoCastle CastleArea = 4
)

// CastleAreaFor returns the area for the given side and wing.
func CastleAreaFor(c Color, kingside bool) CastleArea {
	a := CastleArea(2 * c)
	if !kingside {
		a++
	}
	return a
}

// Bit returns the area as a single-element CastlingRights set.
func (a CastleArea) Bit() CastlingRights {
	return 1 << a
}

// Color returns the side that castles in this area.
func (a CastleArea) Color() Color {
	return Color(a >> 1)
}

// Kingside reports whether the area is on the king's wing.
func (a CastleArea) Kingside() bool {
	return a&1 == 0
}

// meta packs the scalar part of a State into one word:
//
//	bits  0-15  endgame positional eval (int16)
//	bits 16-31  midgame positional eval (int16)
//	bits 32-38  remaining phase weight
//	bits 40-46  halfmove clock
//	bit  48     side to move
//	bits 49-55  en-passant square, 127 when absent
//	bits 56-59  castle status (areas already castled)
//	bits 60-63  castle rights
//
// All reads and writes of the word go through the accessors below.
type meta uint64

const (
	endgameShift = 0
	midgameShift = 16
	weightShift  = 32
	clockShift   = 40
	sideShift    = 48
	epShift      = 49
	statusShift  = 56
	rightsShift  = 60

	mask16 = 0xFFFF
	mask7  = 0x7F
	mask4  = 0xF
	mask1  = 0x1

	noEnPassant = 127
)

func (m meta) field(shift uint, mask uint64) uint64 {
	return uint64(m) >> shift & mask
}

func (m meta) with(shift uint, mask, v uint64) meta {
	return meta(uint64(m)&^(mask<<shift) | (v&mask)<<shift)
}

func (m meta) endgame() int16 {
	return int16(uint16(m.field(endgameShift, mask16)))
}

func (m meta) withEndgame(v int16) meta {
	return m.with(endgameShift, mask16, uint64(uint16(v)))
}

func (m meta) midgame() int16 {
	return int16(uint16(m.field(midgameShift, mask16)))
}

func (m meta) withMidgame(v int16) meta {
	return m.with(midgameShift, mask16, uint64(uint16(v)))
}

func (m meta) weight() int {
	return int(m.field(weightShift, mask7))
}

func (m meta) withWeight(w int) meta {
	return m.with(weightShift, mask7, uint64(max(0, min(w, mask7))))
}

func (m meta) clock() int {
	return int(m.field(clockShift, mask7))
}

// withClock saturates at the field width.
func (m meta) withClock(n int) meta {
	return m.with(clockShift, mask7, uint64(max(0, min(n, mask7))))
}

func (m meta) side() Color {
	return Color(m.field(sideShift, mask1))
}

func (m meta) withSide(c Color) meta {
	return m.with(sideShift, mask1, uint64(c))
}

func (m meta) enPassant() Square {
	ep := m.field(epShift, mask7)
	if ep == noEnPassant {
		return NoSquare
	}
	return Square(ep)
}

func (m meta) withEnPassant(sq Square) meta {
	v := uint64(noEnPassant)
	if sq < NoSquare {
		v = uint64(sq)
	}
	return m.with(epShift, mask7, v)
}

func (m meta) status() CastlingRights {
	return CastlingRights(m.field(statusShift, mask4))
}

func (m meta) withStatus(cr CastlingRights) meta {
	return m.with(statusShift, mask4, uint64(cr))
}

func (m meta) rights() CastlingRights {
	return CastlingRights(m.field(rightsShift, mask4))
}

func (m meta) withRights(cr CastlingRights) meta {
	return m.with(rightsShift, mask4, uint64(cr))
}

// valid reports whether the word decodes to legal field values.
func (m meta) valid() bool {
	ep := m.field(epShift, mask7)
	return ep == noEnPassant || ep < uint64(NoSquare)
}

// piecePhase converts the remaining weight into a phase that is 0 at the
// start and rises toward MaxPhase as pieces leave the board.
func (m meta) piecePhase() int {
	return max(0, MaxPhase-m.weight())
}
