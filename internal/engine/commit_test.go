package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommitRejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   []string
		side    Color
		from    string
		to      string
		wantErr error
	}{
		{name: "empty source", side: White, from: "e4", to: "e5", wantErr: ErrNoPieceAtSource},
		{name: "opponent piece", side: White, from: "e7", to: "e5", wantErr: ErrWrongTurn},
		{name: "not side to move", side: Black, from: "e7", to: "e5", wantErr: ErrWrongTurn},
		{name: "unreachable square", side: White, from: "e2", to: "e5", wantErr: ErrIllegalDestination},
		{name: "own piece", side: White, from: "a1", to: "a2", wantErr: ErrIllegalDestination},
		{name: "same square", side: White, from: "g1", to: "g1", wantErr: ErrIllegalDestination},
		{
			name:    "blocks check",
			setup:   []string{"e2e4", "d7d5", "e4d5", "d8d5", "d2d4", "d5e4"},
			side:    White,
			from:    "g1",
			to:      "e2",
			wantErr: nil,
		},
		{
			name:    "ignores check",
			setup:   []string{"e2e4", "d7d5", "e4d5", "d8d5", "d2d4", "d5e4"},
			side:    White,
			from:    "a2",
			to:      "a3",
			wantErr: ErrSelfCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStandardPosition()
			play(t, p, tt.setup...)
			before := p.Clone()

			_, err := p.Commit(tt.side, MustParseSquare(tt.from), MustParseSquare(tt.to))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var me *MoveError
			if !errors.As(err, &me) || me.From.String() != tt.from || me.To.String() != tt.to {
				t.Errorf("error %v does not carry the move", err)
			}
			if diff := cmp.Diff(before, p, positionState); diff != "" {
				t.Errorf("rejected move changed the position (-before +after):\n%s", diff)
			}
		})
	}
}

func TestCommitReportsCapture(t *testing.T) {
	p := NewStandardPosition()
	play(t, p, "e2e4", "d7d5")

	res, err := p.Commit(White, MustParseSquare("e4"), MustParseSquare("d5"))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	want := MoveResult{
		From:       MustParseSquare("e4"),
		To:         MustParseSquare("d5"),
		Piece:      Piece{Type: Pawn, Color: White, HasMoved: true},
		Captured:   &Piece{Type: Pawn, Color: Black, HasMoved: true},
		CapturedAt: MustParseSquare("d5"),
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if p.Turn() != 4 || p.ToMove() != Black {
		t.Errorf("turn=%d toMove=%v, want 4 black", p.Turn(), p.ToMove())
	}
}

func TestEnPassantCapture(t *testing.T) {
	p := NewStandardPosition()
	play(t, p, "g1f3", "d7d5", "f3g1", "d5d4", "e2e4")

	d4 := MustParseSquare("d4")
	e3 := MustParseSquare("e3")
	if !contains(p.LegalMoves(d4), e3) {
		t.Fatalf("e3 missing from d4 moves %v", names(p.LegalMoves(d4)))
	}
	if got := p.LegalMoves(d4); got[len(got)-1] != e3 {
		t.Errorf("en passant should be generated last, got %v", names(got))
	}

	res, err := p.Commit(Black, d4, e3)
	if err != nil {
		t.Fatalf("commit en passant: %v", err)
	}
	if !res.EnPassant || res.CapturedAt != MustParseSquare("e4") {
		t.Errorf("result = %+v, want en passant capture on e4", res)
	}
	if res.Captured == nil || res.Captured.Type != Pawn || res.Captured.Color != White {
		t.Errorf("captured = %+v, want white pawn", res.Captured)
	}
	if _, ok := p.PieceAt(MustParseSquare("e4")); ok {
		t.Error("victim pawn still on e4")
	}
	if pc, ok := p.PieceAt(e3); !ok || pc.Color != Black {
		t.Errorf("e3 = %+v, want black pawn", pc)
	}
}

func TestEnPassantWindowExpires(t *testing.T) {
	p := NewStandardPosition()
	play(t, p, "g1f3", "d7d5", "f3g1", "d5d4", "e2e4")

	d4 := MustParseSquare("d4")
	e3 := MustParseSquare("e3")
	if !contains(p.LegalMoves(d4), e3) {
		t.Fatal("e3 should be available immediately after e2e4")
	}

	play(t, p, "h7h6")
	if p.EnPassant() != nil {
		t.Fatalf("window still open: %+v", p.EnPassant())
	}
	if contains(p.LegalMoves(d4), e3) {
		t.Errorf("e3 still legal after the window closed: %v", names(p.LegalMoves(d4)))
	}
}

func TestEnPassantOnlyForPawns(t *testing.T) {
	p := place(map[string]Piece{
		"e1": NewPiece(King, White),
		"d2": {Type: Pawn, Color: White},
		"c5": NewPiece(Knight, Black),
		"h8": NewPiece(King, Black),
	}, White)
	play(t, p, "d2d4")

	res, err := p.Commit(Black, MustParseSquare("c5"), MustParseSquare("d3"))
	if err != nil {
		t.Fatalf("knight to d3: %v", err)
	}
	if res.EnPassant || res.Captured != nil {
		t.Errorf("knight move treated as en passant: %+v", res)
	}
	if _, ok := p.PieceAt(MustParseSquare("d4")); !ok {
		t.Error("pawn on d4 was removed by a knight landing on d3")
	}
}

func TestEnPassantExposingKingIsRejected(t *testing.T) {
	// Taking en passant would clear the fifth rank between king and rook.
	p := place(map[string]Piece{
		"a5": NewPiece(King, White),
		"b5": {Type: Pawn, Color: White, HasMoved: true},
		"c7": NewPiece(Pawn, Black),
		"h5": NewPiece(Rook, Black),
		"h1": NewPiece(King, Black),
	}, Black)
	play(t, p, "c7c5")

	b5 := MustParseSquare("b5")
	c6 := MustParseSquare("c6")
	if contains(p.LegalMoves(b5), c6) {
		t.Fatalf("b5c6 should be illegal, moves %v", names(p.LegalMoves(b5)))
	}
	before := p.Clone()
	if _, err := p.Commit(White, b5, c6); !errors.Is(err, ErrSelfCheck) {
		t.Fatalf("commit error = %v, want ErrSelfCheck", err)
	}
	if diff := cmp.Diff(before, p, positionState); diff != "" {
		t.Errorf("position changed (-before +after):\n%s", diff)
	}
}
