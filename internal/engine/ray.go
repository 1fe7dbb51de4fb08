package engine

// Direction is a per-step (file, rank) delta.
type Direction struct {
	File int
	Rank int
}

// maxCastSteps bounds every ray walk. Seven steps cross the board, so the
// cap only matters for a zero direction passed in by mistake.
const maxCastSteps = 50

var (
	orthogonal  = []Direction{{-1, 0}, {1, 0}, {0, 1}, {0, -1}}
	diagonal    = []Direction{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}
	royal       = append(append([]Direction{}, orthogonal...), diagonal...)
	knightJumps = []Direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// Ray is the result of walking from an origin in one direction.
type Ray struct {
	// Empties are the unoccupied squares passed, nearest first.
	Empties []Square
	// Blocker is the first occupied square hit, valid when Blocked is set.
	Blocker Square
	Blocked bool
}

// Cast walks origin+k*dir for k = 1..maxSteps and stops at the board edge or
// the first occupied square. A maxSteps of zero or less means unbounded.
// Callers must not pass a zero direction.
func (p *Position) Cast(origin Square, dir Direction, maxSteps int) Ray {
	if maxSteps <= 0 || maxSteps > maxCastSteps {
		maxSteps = maxCastSteps
	}
	var r Ray
	for k := 1; k <= maxSteps; k++ {
		sq := origin.step(dir, k)
		if !sq.InBounds() {
			break
		}
		if _, ok := p.PieceAt(sq); ok {
			r.Blocker = sq
			r.Blocked = true
			break
		}
		r.Empties = append(r.Empties, sq)
	}
	return r
}
