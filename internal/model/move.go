package model

import (
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

// Ply is one half-move as recorded in a game's history.
type Ply struct {
	Turn          int           `json:"turn"`
	Color         engine.Color  `json:"color"`
	Piece         engine.Piece  `json:"piece"`
	From          engine.Square `json:"from"`
	To            engine.Square `json:"to"`
	CapturedPiece *engine.Piece `json:"capturedPiece"`
	EnPassant     bool          `json:"enPassant"`
	Check         bool          `json:"check"`
	Notation      string        `json:"notation"`
}

// Move pairs a white ply with the black reply. Either side may be nil when
// a game starts with Black to move or the reply has not been played.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}

func newPly(turn int, res engine.MoveResult, check, mate bool) Ply {
	return Ply{
		Turn:          turn,
		Color:         res.Piece.Color,
		Piece:         res.Piece,
		From:          res.From,
		To:            res.To,
		CapturedPiece: res.Captured,
		EnPassant:     res.EnPassant,
		Check:         check,
		Notation:      notation(res, check, mate),
	}
}

func pairPlies(plies []Ply) []Move {
	moves := make([]Move, 0, (len(plies)+1)/2)
	for i := range plies {
		ply := &plies[i]
		if ply.Color == engine.White || len(moves) == 0 || moves[len(moves)-1].BlackPly != nil {
			moves = append(moves, Move{})
		}
		last := &moves[len(moves)-1]
		if ply.Color == engine.White {
			last.WhitePly = ply
		} else {
			last.BlackPly = ply
		}
	}
	return moves
}

func pieceLetter(t engine.PieceType) string {
	switch t {
	case engine.King:
		return "K"
	case engine.Queen:
		return "Q"
	case engine.Rook:
		return "R"
	case engine.Bishop:
		return "B"
	case engine.Knight:
		return "N"
	}
	return ""
}

// notation is the move-list display string: short algebraic without
// disambiguation. Nothing parses it back.
func notation(res engine.MoveResult, check, mate bool) string {
	var sb strings.Builder
	sb.WriteString(pieceLetter(res.Piece.Type))
	if res.Captured != nil {
		if res.Piece.Type == engine.Pawn {
			sb.WriteString(res.From.String()[:1])
		}
		sb.WriteString("x")
	}
	sb.WriteString(res.To.String())
	switch {
	case mate:
		sb.WriteString("#")
	case check:
		sb.WriteString("+")
	}
	return sb.String()
}
