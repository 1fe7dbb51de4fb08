package engine

// MoveResult describes a committed move.
type MoveResult struct {
	From  Square `json:"from"`
	To    Square `json:"to"`
	Piece Piece  `json:"piece"`
	// Captured is the taken piece, if any. For en passant CapturedAt differs
	// from To.
	Captured   *Piece `json:"captured,omitempty"`
	CapturedAt Square `json:"capturedAt"`
	EnPassant  bool   `json:"enPassant"`
}

// Commit plays a move for side. The position is left unchanged when an error
// is returned; errors are *MoveError wrapping ErrNoPieceAtSource,
// ErrWrongTurn, ErrIllegalDestination or ErrSelfCheck.
func (p *Position) Commit(side Color, from, to Square) (MoveResult, error) {
	pc, ok := p.PieceAt(from)
	if !ok {
		return MoveResult{}, moveError(from, to, ErrNoPieceAtSource)
	}
	if pc.Color != side || side != p.toMove {
		return MoveResult{}, moveError(from, to, ErrWrongTurn)
	}
	if !contains(p.LegalMoves(from), to) {
		if contains(p.PseudoLegalMoves(from), to) {
			return MoveResult{}, moveError(from, to, ErrSelfCheck)
		}
		return MoveResult{}, moveError(from, to, ErrIllegalDestination)
	}

	res := MoveResult{From: from, To: to, Piece: pc, CapturedAt: to}
	if target, ok := p.PieceAt(to); ok {
		res.Captured = &target
	}
	enPassant := p.isEnPassantCapture(pc, to)

	if !p.apply(from, to) {
		return MoveResult{}, moveError(from, to, ErrIllegalDestination)
	}
	if enPassant {
		if sq, victim, ok := p.takeEnPassantVictim(); ok {
			res.Captured = &victim
			res.CapturedAt = sq
			res.EnPassant = true
		}
	}
	if p.InCheck(side) {
		_ = p.revert()
		return MoveResult{}, moveError(from, to, ErrSelfCheck)
	}

	res.Piece.HasMoved = true
	p.advanceTurn()
	return res, nil
}
