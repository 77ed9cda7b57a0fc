package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a State. The full-move number is
// accepted but not kept. Development pieces are those of the start
// position still standing on their start squares. The repetition ring
// starts fresh, as in NewGame.
func ParseFEN(fen string) (*State, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	// Parse piece placement (field 0)
	pieces, err := parsePiecePlacement(parts[0])
	if err != nil {
		return nil, err
	}
	if err := validatePieces(&pieces); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	rights, err := parseCastlingRights(parts[2])
	if err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	ep := NoSquare
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		ep = sq
	}

	// Parse half-move clock (field 4, optional)
	clock := 0
	if len(parts) > 4 {
		clock, err = strconv.Atoi(parts[4])
		if err != nil || clock < 0 {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
	}

	// Validate full-move number (field 5, optional)
	if len(parts) > 5 {
		if _, err := strconv.Atoi(parts[5]); err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
	}

	return newState(pieces, side, rights, ep, clock, developmentOf(&pieces)), nil
}

// MustParseFEN is like ParseFEN but panics on error. For tests and
// package-level fixtures.
func MustParseFEN(fen string) *State {
	s, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return s
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(placement string) ([12]Bitboard, error) {
	var pieces [12]Bitboard
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return pieces, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return pieces, fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return pieces, fmt.Errorf("invalid piece character: %c", c)
			}
			pieces[piece] |= SquareBB(NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return pieces, fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return pieces, nil
}

// validatePieces checks that each side has exactly one king and that no
// pawn stands on a back rank.
func validatePieces(pieces *[12]Bitboard) error {
	if pieces[WhiteKing].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if pieces[BlackKing].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (pieces[WhitePawn]|pieces[BlackPawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return cr, nil
}

// developmentOf returns the development squares still holding the piece
// they held at the start.
func developmentOf(pieces *[12]Bitboard) Bitboard {
	start := StartPieces()
	var dev Bitboard
	for p := WhitePawn; p <= BlackKing; p++ {
		dev |= pieces[p] & start[p] & StartDevelopment
	}
	return dev
}

// ToFEN returns the FEN representation of the state. The full-move number
// is not tracked and is always written as 1.
func (s *State) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := s.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if s.SideToMove() == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(s.CastleRights().String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(s.EnPassant().String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.HalfmoveClock()))
	sb.WriteString(" 1")

	return sb.String()
}
