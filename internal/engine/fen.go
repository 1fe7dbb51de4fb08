package engine

import (
	"fmt"
	"strconv"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	toChessType = map[PieceType]chess.PieceType{
		Pawn:   chess.Pawn,
		Rook:   chess.Rook,
		Knight: chess.Knight,
		Bishop: chess.Bishop,
		Queen:  chess.Queen,
		King:   chess.King,
	}
	fromChessType = map[chess.PieceType]PieceType{
		chess.Pawn:   Pawn,
		chess.Rook:   Rook,
		chess.Knight: Knight,
		chess.Bishop: Bishop,
		chess.Queen:  Queen,
		chess.King:   King,
	}
)

// ParseFEN loads a position from Forsyth-Edwards Notation. Castling rights
// and the halfmove clock are accepted but ignored. A piece counts as unmoved
// only when it stands on a square where its kind starts in the standard
// setup. An en passant target opens a window on the current turn.
func ParseFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	fields := strings.Fields(fen)
	fullmove, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: fullmove %q", ErrInvalidFEN, fields[len(fields)-1])
	}

	p := &Position{toMove: White, turn: 2*(fullmove-1) + 1}
	if pos.Turn() == chess.Black {
		p.toMove = Black
		p.turn++
	}

	for csq, cpc := range pos.Board().SquareMap() {
		t, ok := fromChessType[cpc.Type()]
		if !ok {
			continue
		}
		sq := Square{File: int(csq.File()), Rank: int(csq.Rank())}
		pc := NewPiece(t, White)
		if cpc.Color() == chess.Black {
			pc.Color = Black
		}
		pc.HasMoved = !onHomeSquare(pc, sq)
		p.put(sq, pc)
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		capture := Square{File: int(ep.File()), Rank: int(ep.Rank())}
		// The pawn that just advanced belongs to the side not on move.
		victim := Square{File: capture.File, Rank: capture.Rank + p.toMove.Opponent().forward()}
		p.enPassant = &EnPassant{Capture: capture, Victim: victim, Turn: p.turn - 1}
	}
	return p, nil
}

// FEN encodes the position. Castling is never available and the halfmove
// clock is not tracked, so those fields are always "-" and 0.
func (p *Position) FEN() string {
	m := make(map[chess.Square]chess.Piece)
	for i, pc := range p.squares {
		if pc.IsZero() {
			continue
		}
		c := chess.White
		if pc.Color == Black {
			c = chess.Black
		}
		sq := chess.NewSquare(chess.File(i%boardSize), chess.Rank(i/boardSize))
		m[sq] = chess.NewPiece(toChessType[pc.Type], c)
	}

	turn := "w"
	if p.toMove == Black {
		turn = "b"
	}
	ep := "-"
	if p.enPassant != nil {
		ep = p.enPassant.Capture.String()
	}
	fullmove := (p.turn + 1) / 2
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s - %s 0 %d", chess.NewBoard(m).String(), turn, ep, fullmove)
}

func onHomeSquare(pc Piece, sq Square) bool {
	home, pawnRank := 0, 1
	if pc.Color == Black {
		home, pawnRank = 7, 6
	}
	if pc.Type == Pawn {
		return sq.Rank == pawnRank
	}
	return sq.Rank == home && backRank[sq.File] == pc.Type
}
