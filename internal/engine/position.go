package engine

// EnPassant describes an open en passant window. Capture is the square a
// capturing pawn lands on, Victim is the square of the pawn that advanced
// two ranks, and Turn is the turn on which the window opened.
type EnPassant struct {
	Capture Square `json:"capture"`
	Victim  Square `json:"victim"`
	Turn    int    `json:"turn"`
}

// expired reports whether the window has closed by the given turn. It stays
// open for exactly the opponent's reply.
func (e *EnPassant) expired(turn int) bool {
	return e.Turn+2 <= turn
}

// occupant is a piece together with whether it was present.
type occupant struct {
	piece Piece
	ok    bool
}

// lastMove holds what is needed to undo the most recent apply.
type lastMove struct {
	from, to  Square
	moved     Piece
	captured  occupant
	enPassant *EnPassant

	// Set when the orchestrating caller removed an en passant victim after
	// the apply.
	victimSquare Square
	victim       occupant
}

// Position is a board plus the transient state needed to play on it. The
// board is only changed through apply, revert and advanceTurn. A Position is
// not safe for concurrent use.
type Position struct {
	squares   [boardSize * boardSize]Piece
	toMove    Color
	turn      int
	enPassant *EnPassant
	last      *lastMove
}

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStandardPosition returns the standard starting position with White to
// move on turn 1.
func NewStandardPosition() *Position {
	p := &Position{toMove: White, turn: 1}
	for f := 0; f < boardSize; f++ {
		p.put(Square{f, 0}, NewPiece(backRank[f], White))
		p.put(Square{f, 1}, NewPiece(Pawn, White))
		p.put(Square{f, 6}, NewPiece(Pawn, Black))
		p.put(Square{f, 7}, NewPiece(backRank[f], Black))
	}
	return p
}

// NewCustomPosition builds a position from an explicit placement. Squares
// outside the board and empty pieces are ignored.
func NewCustomPosition(pieces map[Square]Piece, toMove Color) *Position {
	p := &Position{toMove: toMove, turn: 1}
	if toMove == Black {
		p.turn = 2
	}
	for sq, pc := range pieces {
		if sq.InBounds() && !pc.IsZero() {
			p.put(sq, pc)
		}
	}
	return p
}

// PieceAt returns the piece on sq, if any.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		return Piece{}, false
	}
	pc := p.squares[sq.index()]
	return pc, !pc.IsZero()
}

func (p *Position) ToMove() Color {
	return p.toMove
}

// Turn is the half-move counter, starting at 1.
func (p *Position) Turn() int {
	return p.turn
}

// EnPassant returns a copy of the open en passant window, or nil.
func (p *Position) EnPassant() *EnPassant {
	if p.enPassant == nil {
		return nil
	}
	ep := *p.enPassant
	return &ep
}

// Clone returns an independent copy, without the undo snapshot.
func (p *Position) Clone() *Position {
	c := &Position{
		squares: p.squares,
		toMove:  p.toMove,
		turn:    p.turn,
	}
	c.enPassant = p.EnPassant()
	return c
}

// Occupied returns every occupied square of the given color in board order.
func (p *Position) Occupied(c Color) []Square {
	var out []Square
	for i, pc := range p.squares {
		if !pc.IsZero() && pc.Color == c {
			out = append(out, Square{File: i % boardSize, Rank: i / boardSize})
		}
	}
	return out
}

// Grid returns the board as rows from rank 8 down to rank 1, with nil for
// empty squares.
func (p *Position) Grid() [][]*Piece {
	grid := make([][]*Piece, boardSize)
	for row := 0; row < boardSize; row++ {
		grid[row] = make([]*Piece, boardSize)
		for f := 0; f < boardSize; f++ {
			if pc, ok := p.PieceAt(Square{f, boardSize - 1 - row}); ok {
				pc := pc
				grid[row][f] = &pc
			}
		}
	}
	return grid
}

func (p *Position) put(sq Square, pc Piece) {
	p.squares[sq.index()] = pc
}

func (p *Position) remove(sq Square) {
	p.squares[sq.index()] = Piece{}
}

func (p *Position) restore(sq Square, o occupant) {
	if o.ok {
		p.put(sq, o.piece)
		return
	}
	p.remove(sq)
}

func (p *Position) occupantAt(sq Square) occupant {
	pc, ok := p.PieceAt(sq)
	return occupant{piece: pc, ok: ok}
}
