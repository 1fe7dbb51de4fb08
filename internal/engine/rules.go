package engine

// InCheck reports whether the king of color c stands on a square some
// opposing piece could move to. Opposing moves are pseudo-legal: self-check
// filtering is not applied to the attacker.
func (p *Position) InCheck(c Color) bool {
	for _, sq := range p.Occupied(c.Opponent()) {
		for _, dst := range p.PseudoLegalMoves(sq) {
			if pc, ok := p.PieceAt(dst); ok && pc.Color == c && pc.Type == King {
				return true
			}
		}
	}
	return false
}

// LegalMoves returns the pseudo-legal destinations of the piece on origin
// that do not leave its own king in check, in generation order.
func (p *Position) LegalMoves(origin Square) []Square {
	pc, ok := p.PieceAt(origin)
	if !ok {
		return nil
	}
	var legal []Square
	for _, to := range p.PseudoLegalMoves(origin) {
		if !p.wouldSelfCheck(origin, to, pc.Color) {
			legal = append(legal, to)
		}
	}
	return legal
}

// AllLegalMoves returns every legal move for color c.
func (p *Position) AllLegalMoves(c Color) []Move {
	var moves []Move
	for _, from := range p.Occupied(c) {
		for _, to := range p.LegalMoves(from) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// InCheckmate reports whether color c is in check with no legal move.
func (p *Position) InCheckmate(c Color) bool {
	if !p.InCheck(c) {
		return false
	}
	for _, from := range p.Occupied(c) {
		if len(p.LegalMoves(from)) > 0 {
			return false
		}
	}
	return true
}

func (p *Position) wouldSelfCheck(from, to Square, c Color) bool {
	check := false
	p.simulate(from, to, func() {
		check = p.InCheck(c)
	})
	return check
}

func contains(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
