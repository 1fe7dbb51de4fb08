package engine

// PseudoLegalMoves returns the destinations the piece on origin can reach by
// its movement pattern and board occupancy, without testing whether the move
// leaves its own king attacked. Quiet destinations come first, then
// captures, then an en passant destination. An empty origin yields nil.
func (p *Position) PseudoLegalMoves(origin Square) []Square {
	pc, ok := p.PieceAt(origin)
	if !ok {
		return nil
	}

	var (
		quiet    []Square
		blockers []Square
		extra    []Square
	)
	castAll := func(dirs []Direction, maxSteps int) {
		for _, dir := range dirs {
			r := p.Cast(origin, dir, maxSteps)
			quiet = append(quiet, r.Empties...)
			if r.Blocked {
				blockers = append(blockers, r.Blocker)
			}
		}
	}

	switch pc.Type {
	case Pawn:
		quiet, blockers, extra = p.pawnMoves(origin, pc)
	case Rook:
		castAll(orthogonal, 0)
	case Bishop:
		castAll(diagonal, 0)
	case Queen:
		castAll(royal, 0)
	case Knight:
		castAll(knightJumps, 1)
	case King:
		castAll(royal, 1)
	}

	moves := quiet
	for _, sq := range blockers {
		if target, ok := p.PieceAt(sq); ok && target.Color != pc.Color {
			moves = append(moves, sq)
		}
	}
	return append(moves, extra...)
}

// pawnMoves splits pawn destinations into forward steps, squares that are
// captures when they hold an enemy piece, and an en passant destination.
// A forward blocker is never a capture.
func (p *Position) pawnMoves(origin Square, pc Piece) (forward, attacks, enPassant []Square) {
	dy := pc.Color.forward()
	steps := 2
	if pc.HasMoved {
		steps = 1
	}
	forward = p.Cast(origin, Direction{0, dy}, steps).Empties

	for _, dx := range []int{-1, 1} {
		dir := Direction{dx, dy}
		if r := p.Cast(origin, dir, 1); r.Blocked {
			attacks = append(attacks, r.Blocker)
		}
		if p.enPassantTarget(origin.step(dir, 1), pc.Color) {
			enPassant = append(enPassant, p.enPassant.Capture)
		}
	}
	return forward, attacks, enPassant
}

// enPassantTarget reports whether a pawn of color c attacking sq may capture
// en passant there.
func (p *Position) enPassantTarget(sq Square, c Color) bool {
	ep := p.enPassant
	if ep == nil || sq != ep.Capture {
		return false
	}
	victim, ok := p.PieceAt(ep.Victim)
	return ok && victim.Color != c
}
