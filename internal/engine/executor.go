package engine

// apply moves the piece on from to to, capturing whatever stands there, and
// snapshots enough state for revert. It fails without touching the board
// when from is empty or equals to. En passant victims are not removed here;
// see takeEnPassantVictim.
func (p *Position) apply(from, to Square) bool {
	if from == to || !to.InBounds() {
		return false
	}
	pc, ok := p.PieceAt(from)
	if !ok {
		return false
	}

	p.last = &lastMove{
		from:      from,
		to:        to,
		moved:     pc,
		captured:  p.occupantAt(to),
		enPassant: p.enPassant,
	}

	if pc.Type == Pawn && !pc.HasMoved && abs(to.Rank-from.Rank) == 2 {
		p.enPassant = &EnPassant{
			Capture: Square{File: from.File, Rank: from.Rank + pc.Color.forward()},
			Victim:  to,
			Turn:    p.turn,
		}
	}
	pc.HasMoved = true

	p.remove(from)
	p.put(to, pc)
	return true
}

// revert undoes the most recent apply, including the moved piece's
// HasMoved flag, any captured piece and the en passant window. The snapshot
// is consumed, so a second revert reports ErrNothingToRevert.
func (p *Position) revert() error {
	lm := p.last
	if lm == nil {
		return ErrNothingToRevert
	}
	p.put(lm.from, lm.moved)
	p.restore(lm.to, lm.captured)
	if lm.victim.ok {
		p.put(lm.victimSquare, lm.victim.piece)
	}
	p.enPassant = lm.enPassant
	p.last = nil
	return nil
}

// isEnPassantCapture reports whether moving pc from to to is an en passant
// capture under the current window. It must be asked before apply.
func (p *Position) isEnPassantCapture(pc Piece, to Square) bool {
	return pc.Type == Pawn && p.enPassantTarget(to, pc.Color)
}

// takeEnPassantVictim removes the pawn that was passed by the preceding
// apply and records it in the snapshot so revert puts it back.
func (p *Position) takeEnPassantVictim() (Square, Piece, bool) {
	lm := p.last
	if lm == nil || lm.enPassant == nil {
		return Square{}, Piece{}, false
	}
	sq := lm.enPassant.Victim
	victim := p.occupantAt(sq)
	if !victim.ok {
		return Square{}, Piece{}, false
	}
	lm.victimSquare = sq
	lm.victim = victim
	p.remove(sq)
	return sq, victim.piece, true
}

// advanceTurn ends the current half-move: the counter increases, the side to
// move flips and an en passant window that has served its one reply closes.
func (p *Position) advanceTurn() {
	p.turn++
	p.toMove = p.toMove.Opponent()
	if p.enPassant != nil && p.enPassant.expired(p.turn) {
		p.enPassant = nil
	}
	p.last = nil
}

// simulate applies from-to, runs inspect on the resulting board and always
// reverts before returning, even if inspect panics.
func (p *Position) simulate(from, to Square, inspect func()) bool {
	pc, ok := p.PieceAt(from)
	if !ok {
		return false
	}
	enPassant := p.isEnPassantCapture(pc, to)
	if !p.apply(from, to) {
		return false
	}
	defer func() { _ = p.revert() }()
	if enPassant {
		p.takeEnPassantVictim()
	}
	inspect()
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
