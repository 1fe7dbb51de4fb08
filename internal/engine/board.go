// Package engine implements the chess rules core: move generation,
// check detection, legality filtering and move execution on a Position.
package engine

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank delta of a pawn advance for this color.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// PieceType is the kind of a piece. The zero value marks an empty square.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "rook", "knight", "bishop", "queen", "king"}

func (t PieceType) String() string {
	if int(t) < len(pieceTypeNames) {
		return pieceTypeNames[t]
	}
	return "unknown"
}

// Value is the material worth of a piece. The king is valued high so that
// scoring callers always prefer taking it.
func (t PieceType) Value() int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 100
	}
	return 0
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Piece is a piece on the board.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// NewPiece returns an unmoved piece.
func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

// IsZero reports whether p is the empty-square marker.
func (p Piece) IsZero() bool {
	return p.Type == NoPieceType
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Type.String()
}

// Square is a board coordinate. File and Rank are both in [0,7];
// file 0 is the a-file and rank 0 is the first rank.
type Square struct {
	File int
	Rank int
}

const (
	boardSize = 8
	files     = "abcdefgh"
	ranks     = "12345678"
)

// NewSquare validates numeric coordinates.
func NewSquare(file, rank int) (Square, error) {
	sq := Square{File: file, Rank: rank}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, file, rank)
	}
	return sq, nil
}

// ParseSquare parses two-character notation such as "e4". The file letter
// must be lowercase a-h and the rank digit 1-8.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return Square{File: int(f - 'a'), Rank: int(r - '1')}, nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// InBounds reports whether both coordinates lie on the board.
func (s Square) InBounds() bool {
	return s.File >= 0 && s.File < boardSize && s.Rank >= 0 && s.Rank < boardSize
}

func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return string([]byte{files[s.File], ranks[s.Rank]})
}

func (s Square) index() int {
	return s.Rank*boardSize + s.File
}

func (s Square) step(d Direction, k int) Square {
	return Square{File: s.File + d.File*k, Rank: s.Rank + d.Rank*k}
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

// Move is an origin/destination pair.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}
