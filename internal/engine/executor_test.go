package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var positionState = cmp.AllowUnexported(Position{}, EnPassant{}, lastMove{}, occupant{})

func TestApplyRevertRoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w - f6 0 3",
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w - - 4 4",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			p, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for _, from := range append(p.Occupied(White), p.Occupied(Black)...) {
				for _, to := range p.PseudoLegalMoves(from) {
					before := p.Clone()
					if !p.apply(from, to) {
						t.Fatalf("apply %v%v failed", from, to)
					}
					if err := p.revert(); err != nil {
						t.Fatalf("revert %v%v: %v", from, to, err)
					}
					if diff := cmp.Diff(before, p, positionState); diff != "" {
						t.Fatalf("%v%v not restored (-before +after):\n%s", from, to, diff)
					}
				}
			}
		})
	}
}

func TestApplyRejectsWithoutMutation(t *testing.T) {
	p := NewStandardPosition()
	before := p.Clone()

	if p.apply(MustParseSquare("e4"), MustParseSquare("e5")) {
		t.Error("apply from an empty square succeeded")
	}
	if p.apply(MustParseSquare("e2"), MustParseSquare("e2")) {
		t.Error("apply onto the origin square succeeded")
	}
	if diff := cmp.Diff(before, p, positionState); diff != "" {
		t.Errorf("position changed (-before +after):\n%s", diff)
	}
}

func TestRevertRestoresCapturedPieceAndFlags(t *testing.T) {
	p := place(map[string]Piece{
		"d4": NewPiece(Rook, White),
		"d7": {Type: Bishop, Color: Black, HasMoved: true},
	}, White)

	if !p.apply(MustParseSquare("d4"), MustParseSquare("d7")) {
		t.Fatal("apply failed")
	}
	moved, _ := p.PieceAt(MustParseSquare("d7"))
	if moved.Type != Rook || !moved.HasMoved {
		t.Fatalf("after apply d7 = %+v, want moved white rook", moved)
	}

	if err := p.revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	rook, _ := p.PieceAt(MustParseSquare("d4"))
	if rook.HasMoved {
		t.Error("HasMoved should return to false on revert")
	}
	bishop, ok := p.PieceAt(MustParseSquare("d7"))
	if diff := cmp.Diff(Piece{Type: Bishop, Color: Black, HasMoved: true}, bishop); !ok || diff != "" {
		t.Errorf("captured piece not restored (-want +got):\n%s", diff)
	}
}

func TestRevertWithoutApply(t *testing.T) {
	p := NewStandardPosition()
	if err := p.revert(); !errors.Is(err, ErrNothingToRevert) {
		t.Fatalf("revert on fresh position = %v, want ErrNothingToRevert", err)
	}

	p.apply(MustParseSquare("g1"), MustParseSquare("f3"))
	if err := p.revert(); err != nil {
		t.Fatalf("first revert: %v", err)
	}
	before := p.Clone()
	if err := p.revert(); !errors.Is(err, ErrNothingToRevert) {
		t.Fatalf("second revert = %v, want ErrNothingToRevert", err)
	}
	if diff := cmp.Diff(before, p, positionState); diff != "" {
		t.Errorf("second revert changed the board (-before +after):\n%s", diff)
	}
}

func TestDoubleStepOpensEnPassantWindow(t *testing.T) {
	p := NewStandardPosition()
	p.apply(MustParseSquare("e2"), MustParseSquare("e4"))

	want := &EnPassant{Capture: MustParseSquare("e3"), Victim: MustParseSquare("e4"), Turn: 1}
	if diff := cmp.Diff(want, p.EnPassant()); diff != "" {
		t.Fatalf("en passant mismatch (-want +got):\n%s", diff)
	}
	if err := p.revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if p.EnPassant() != nil {
		t.Errorf("window still open after revert: %+v", p.EnPassant())
	}
}

func TestAdvanceTurnExpiresWindow(t *testing.T) {
	p := NewStandardPosition()
	p.apply(MustParseSquare("d2"), MustParseSquare("d4"))

	p.advanceTurn()
	if p.Turn() != 2 || p.ToMove() != Black {
		t.Fatalf("turn=%d toMove=%v, want 2 black", p.Turn(), p.ToMove())
	}
	if p.EnPassant() == nil {
		t.Fatal("window closed before the reply")
	}

	p.advanceTurn()
	if p.EnPassant() != nil {
		t.Errorf("window still open on turn %d: %+v", p.Turn(), p.EnPassant())
	}
}

func TestSimulateRevertsOnPanic(t *testing.T) {
	p := NewStandardPosition()
	before := p.Clone()

	func() {
		defer func() { _ = recover() }()
		p.simulate(MustParseSquare("e2"), MustParseSquare("e4"), func() {
			panic("inspect failed")
		})
	}()

	if diff := cmp.Diff(before, p, positionState); diff != "" {
		t.Errorf("position left mutated (-before +after):\n%s", diff)
	}
}
