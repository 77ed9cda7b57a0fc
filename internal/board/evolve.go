package board

import "fmt"

// rightsLost maps a square to the castle rights lost when a piece moves
// from or to it.
var rightsLost = func() [64]CastlingRights {
	var t [64]CastlingRights
	t[A1] = WhiteQueenSideCastle
	t[H1] = WhiteKingSideCastle
	t[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	t[A8] = BlackQueenSideCastle
	t[H8] = BlackKingSideCastle
	t[E8] = BlackKingSideCastle | BlackQueenSideCastle
	return t
}()

// Apply returns the state reached by playing m in s.
func (s *State) Apply(m Move) (*State, error) {
	return m.Evolve(s)
}

// Evolve returns the state reached by playing m in s. The receiver state
// is not modified. Moves that do not fit the position, such as an empty
// origin or a capture of a king, return ErrInvariantViolation.
func (m Move) Evolve(s *State) (*State, error) {
	var (
		next *State
		err  error
	)
	switch m.Kind() {
	case Standard:
		next, err = s.evolveStandard(m)
	case Castle:
		next, err = s.evolveCastle(m)
	case EnPassantCapture:
		next, err = s.evolveEnPassant(m)
	case Promotion:
		next, err = s.evolvePromotion(m)
	}
	if err != nil {
		return nil, fmt.Errorf("apply %s %s: %w", m.Kind(), m, err)
	}
	return next, nil
}

// delta accumulates the piece-array changes of one transition together with
// their effect on the hash, the positional scores and the phase weight.
type delta struct {
	pieces [12]Bitboard
	hash   uint64
	mid    int16
	end    int16
	weight int
}

func newDelta(s *State) delta {
	return delta{
		pieces: s.pieces,
		hash:   s.Hash(),
		mid:    s.meta.midgame(),
		end:    s.meta.endgame(),
		weight: s.meta.weight(),
	}
}

func (d *delta) remove(p Piece, sq Square) {
	d.pieces[p] &^= SquareBB(sq)
	d.hash ^= defaultHasher.Feature(sq, p)
	d.mid -= MidgameTable.Value(p, sq)
	d.end -= EndgameTable.Value(p, sq)
	d.weight -= PhaseWeight(p.Type())
}

func (d *delta) place(p Piece, sq Square) {
	d.pieces[p] |= SquareBB(sq)
	d.hash ^= defaultHasher.Feature(sq, p)
	d.mid += MidgameTable.Value(p, sq)
	d.end += EndgameTable.Value(p, sq)
	d.weight += PhaseWeight(p.Type())
}

// successor holds the scalar fields of the state being built.
type successor struct {
	rights CastlingRights
	status CastlingRights
	ep     Square
	clock  int
	dev    Bitboard
}

// build assembles the next state from s, the piece delta and the new
// scalar fields, flipping the side to move and pushing the hash ring.
func (s *State) build(d *delta, n successor) *State {
	h := defaultHasher
	hash := d.hash ^
		h.Castling(s.CastleRights()^n.rights) ^
		h.EnPassant(s.EnPassant()) ^ h.EnPassant(n.ep) ^
		h.SideToMoveFeature()

	next := &State{pieces: d.pieces, dev: n.dev}
	next.meta = s.meta.
		withEndgame(d.end).
		withMidgame(d.mid).
		withWeight(d.weight).
		withClock(n.clock).
		withSide(s.Enemy()).
		withEnPassant(n.ep).
		withStatus(n.status).
		withRights(n.rights)
	next.recent = [4]uint64{hash, s.recent[0], s.recent[1], s.recent[2]}
	return next
}

// mover returns the moving piece at from, checking it belongs to the side to move.
func (s *State) mover(from Square) (Piece, error) {
	p := s.PieceAt(from)
	if p == NoPiece {
		return NoPiece, fmt.Errorf("no piece on %s: %w", from, ErrInvariantViolation)
	}
	if p.Color() != s.SideToMove() {
		return NoPiece, fmt.Errorf("%s on %s does not belong to %s: %w", p.Type(), from, s.SideToMove(), ErrInvariantViolation)
	}
	return p, nil
}

// victim returns the piece captured on to, or NoPiece. Friendly pieces and
// kings cannot be captured.
func (s *State) victim(to Square) (Piece, error) {
	p := s.PieceAt(to)
	if p == NoPiece {
		return NoPiece, nil
	}
	if p.Color() == s.SideToMove() {
		return NoPiece, fmt.Errorf("%s occupied by own %s: %w", to, p.Type(), ErrInvariantViolation)
	}
	if p.Type() == King {
		return NoPiece, fmt.Errorf("capture of king on %s: %w", to, ErrInvariantViolation)
	}
	return p, nil
}

func (s *State) evolveStandard(m Move) (*State, error) {
	from, to := m.From(), m.To()
	p, err := s.mover(from)
	if err != nil {
		return nil, err
	}
	captured, err := s.victim(to)
	if err != nil {
		return nil, err
	}

	d := newDelta(s)
	if captured != NoPiece {
		d.remove(captured, to)
	}
	d.remove(p, from)
	d.place(p, to)

	n := successor{
		rights: s.CastleRights() &^ (rightsLost[from] | rightsLost[to]),
		status: s.CastleStatus(),
		ep:     NoSquare,
		clock:  s.HalfmoveClock() + 1,
		dev:    s.dev &^ SquareBB(from),
	}
	if p.Type() == Pawn || captured != NoPiece {
		n.clock = 0
	}
	if p.Type() == Pawn && abs(int(to)-int(from)) == 16 {
		n.ep = from.Forward(p.Color())
	}
	return s.build(&d, n), nil
}

func (s *State) evolveCastle(m Move) (*State, error) {
	a := m.CastleArea()
	if a == NoCastle {
		return nil, fmt.Errorf("not a castle move: %w", ErrInvariantViolation)
	}
	us := s.SideToMove()
	if a.Color() != us {
		return nil, fmt.Errorf("%s cannot castle for %s: %w", us, a.Color(), ErrInvariantViolation)
	}
	path := castlePaths[a]
	king, rook := NewPiece(King, us), NewPiece(Rook, us)
	if !s.pieces[king].IsSet(path.king) || !s.pieces[rook].IsSet(path.rook) {
		return nil, fmt.Errorf("king or rook missing for castle: %w", ErrInvariantViolation)
	}

	d := newDelta(s)
	d.remove(king, path.king)
	d.place(king, m.To())
	d.remove(rook, path.rook)
	d.place(rook, path.rookTo)

	return s.build(&d, successor{
		rights: s.CastleRights() &^ s.CastleRights().ForColor(us),
		status: s.CastleStatus() | a.Bit(),
		ep:     NoSquare,
		clock:  s.HalfmoveClock() + 1,
		dev:    s.dev,
	}), nil
}

func (s *State) evolveEnPassant(m Move) (*State, error) {
	from, to := m.From(), m.To()
	p, err := s.mover(from)
	if err != nil {
		return nil, err
	}
	if p.Type() != Pawn {
		return nil, fmt.Errorf("en passant by %s: %w", p.Type(), ErrInvariantViolation)
	}
	if s.Occupied().IsSet(to) {
		return nil, fmt.Errorf("en passant target %s occupied: %w", to, ErrInvariantViolation)
	}
	capSq := Square(int(to) - 8*p.Color().Orientation())
	enemyPawn := NewPiece(Pawn, p.Color().Other())
	if !s.pieces[enemyPawn].IsSet(capSq) {
		return nil, fmt.Errorf("no pawn to take on %s: %w", capSq, ErrInvariantViolation)
	}

	d := newDelta(s)
	d.remove(enemyPawn, capSq)
	d.remove(p, from)
	d.place(p, to)

	return s.build(&d, successor{
		rights: s.CastleRights(),
		status: s.CastleStatus(),
		ep:     NoSquare,
		clock:  0,
		dev:    s.dev &^ SquareBB(from),
	}), nil
}

func (s *State) evolvePromotion(m Move) (*State, error) {
	from, to := m.From(), m.To()
	p, err := s.mover(from)
	if err != nil {
		return nil, err
	}
	if p.Type() != Pawn {
		return nil, fmt.Errorf("promotion by %s: %w", p.Type(), ErrInvariantViolation)
	}
	promo := m.Promotion()
	captured, err := s.victim(to)
	if err != nil {
		return nil, err
	}

	d := newDelta(s)
	if captured != NoPiece {
		d.remove(captured, to)
	}
	d.remove(p, from)
	d.place(NewPiece(promo, p.Color()), to)

	return s.build(&d, successor{
		rights: s.CastleRights() &^ rightsLost[to],
		status: s.CastleStatus(),
		ep:     NoSquare,
		clock:  0,
		dev:    s.dev &^ SquareBB(from),
	}), nil
}
