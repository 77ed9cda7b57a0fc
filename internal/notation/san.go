// Package notation converts between Standard Algebraic Notation and the
// board package's move descriptors.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hailam/chessstate/internal/board"
)

// ErrInvalidSAN is returned when text is not well-formed SAN.
var ErrInvalidSAN = errors.New("notation: invalid SAN")

// ParseSAN parses a SAN string into a side-agnostic command. Check and
// annotation suffixes are ignored. The command is resolved against a
// position with State.GenerateMove.
func ParseSAN(s string) (board.Command, error) {
	s = strings.TrimSpace(s)
	orig := s
	s = strings.TrimRight(s, "+#!?")

	// Handle castling
	switch s {
	case "O-O", "0-0":
		return board.CastleCommand(board.Kingside), nil
	case "O-O-O", "0-0-0":
		return board.CastleCommand(board.Queenside), nil
	}

	cmd := board.NewCommand(board.Pawn, board.NoSquare)

	// Parse promotion, with or without the '='
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx != len(s)-2 {
			return cmd, fmt.Errorf("%q: bad promotion: %w", orig, ErrInvalidSAN)
		}
		cmd.Promotion = true
		cmd.PromoteTo = pieceType(s[idx+1])
		s = s[:idx]
	} else if n := len(s); n > 2 && pieceType(s[n-1]) != board.NoPieceType && isRank(s[n-2]) {
		cmd.Promotion = true
		cmd.PromoteTo = pieceType(s[n-1])
		s = s[:n-1]
	}
	if cmd.Promotion && (cmd.PromoteTo < board.Knight || cmd.PromoteTo > board.Queen) {
		return cmd, fmt.Errorf("%q: bad promotion piece: %w", orig, ErrInvalidSAN)
	}

	// Determine piece type
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		cmd.Piece = pieceType(s[0])
		if cmd.Piece == board.NoPieceType || cmd.Piece == board.Pawn {
			return cmd, fmt.Errorf("%q: unknown piece %c: %w", orig, s[0], ErrInvalidSAN)
		}
		s = s[1:]
	}
	if cmd.Promotion && cmd.Piece != board.Pawn {
		return cmd, fmt.Errorf("%q: only pawns promote: %w", orig, ErrInvalidSAN)
	}

	// Parse destination (last 2 characters)
	if len(s) < 2 {
		return cmd, fmt.Errorf("%q: missing destination: %w", orig, ErrInvalidSAN)
	}
	dest, err := board.ParseSquare(s[len(s)-2:])
	if err != nil {
		return cmd, fmt.Errorf("%q: %v: %w", orig, err, ErrInvalidSAN)
	}
	cmd.Target = dest
	s = s[:len(s)-2]

	// Capture marker
	if strings.HasSuffix(s, "x") || strings.HasSuffix(s, ":") {
		cmd.Attack = true
		s = s[:len(s)-1]
	}

	// Parse disambiguation (file, rank, or both)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'h' && cmd.FromFile < 0 && cmd.FromRank < 0:
			cmd.FromFile = int(c - 'a')
		case isRank(c) && cmd.FromRank < 0:
			cmd.FromRank = int(c - '1')
		default:
			return cmd, fmt.Errorf("%q: bad origin %q: %w", orig, s, ErrInvalidSAN)
		}
	}
	if cmd.Piece == board.Pawn && cmd.Attack && cmd.FromFile < 0 {
		return cmd, fmt.Errorf("%q: pawn capture needs its file: %w", orig, ErrInvalidSAN)
	}
	return cmd, nil
}

func isRank(c byte) bool {
	return c >= '1' && c <= '8'
}

func pieceType(c byte) board.PieceType {
	switch c {
	case 'N':
		return board.Knight
	case 'B':
		return board.Bishop
	case 'R':
		return board.Rook
	case 'Q':
		return board.Queen
	case 'K':
		return board.King
	}
	return board.NoPieceType
}

// Resolve parses s and resolves it against the position.
func Resolve(st *board.State, s string) (board.Move, error) {
	cmd, err := ParseSAN(s)
	if err != nil {
		return board.NoMove, err
	}
	return st.GenerateMove(cmd)
}

// Play applies a sequence of SAN moves from st and returns the final state.
func Play(st *board.State, moves ...string) (*board.State, error) {
	for i, s := range moves {
		m, err := Resolve(st, s)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if st, err = st.Apply(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return st, nil
}

// Format renders a move of st in SAN, with '+' or '#' when the move
// checks or mates. Moves that cannot be applied fall back to UCI.
func Format(st *board.State, m board.Move) string {
	if m == board.NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := st.PieceAt(from)
	if piece == board.NoPiece {
		return m.String()
	}

	next, err := st.Apply(m)
	if err != nil {
		return m.String()
	}

	var sb strings.Builder

	switch m.CastleArea() {
	case board.NoCastle:
		pt := piece.Type()
		if pt != board.Pawn {
			sb.WriteByte(pt.Letter())
			sb.WriteString(disambiguation(st, m, piece))
		}
		if m.IsCapture(st) {
			if pt == board.Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion().Letter())
		}
	default:
		if m.CastleArea().Kingside() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	}

	if next.InCheck() {
		if next.LegalMoves().Len() == 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

// disambiguation returns the origin hint needed to tell m apart from
// legal moves of other pieces of the same kind onto the same square.
func disambiguation(st *board.State, m board.Move, piece board.Piece) string {
	from := m.From()
	var sameFile, sameRank, others bool
	for _, other := range st.LegalMoves().Slice() {
		if other.To() != m.To() || other.From() == from || st.PieceAt(other.From()) != piece {
			continue
		}
		others = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !others:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// FormatLine converts a line of moves played from st to SAN.
func FormatLine(st *board.State, moves []board.Move) ([]string, error) {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = Format(st, m)
		next, err := st.Apply(m)
		if err != nil {
			return out[:i], fmt.Errorf("move %d: %w", i+1, err)
		}
		st = next
	}
	return out, nil
}
