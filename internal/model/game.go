package model

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Conn is the write side of an observer's websocket.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

const (
	ResultCheckmate = "checkmate"
	ResultTimeout   = "timeout"
)

type Result struct {
	Reason string       `json:"reason"`
	Winner engine.Color `json:"winner"`
}

// The Game struct focuses on a single game's state and its observers. It owns
// exactly one position; every change to it goes through MakeMove.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    *engine.Position
	white       string
	black       string
	clocks      map[engine.Color]*Clock
	history     []Ply
	captured    CapturedPieces
	result      *Result
	connections *GameConnections
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type GameState struct {
	ID              string            `json:"id"`
	Board           [][]*engine.Piece `json:"board"`
	FEN             string            `json:"fen"`
	ToMove          engine.Color      `json:"toMove"`
	Turn            int               `json:"turn"`
	IsCheck         bool              `json:"isCheck"`
	EnPassantTarget *engine.Square    `json:"enPassantTarget"`
	LastMove        *engine.Move      `json:"lastMove"`
	MoveHistory     []Move            `json:"moveHistory"`
	CapturedPieces  CapturedPieces    `json:"capturedPieces"`
	Players         Players           `json:"players"`
	Result          *Result           `json:"result"`
}

type GameOption func(*Game)

// WithPosition starts the game from pos instead of the standard setup.
func WithPosition(pos *engine.Position) GameOption {
	return func(g *Game) {
		g.position = pos
	}
}

func WithClockTime(d time.Duration) GameOption {
	return func(g *Game) {
		g.clocks = map[engine.Color]*Clock{
			engine.White: NewClock(d),
			engine.Black: NewClock(d),
		}
	}
}

func NewGame(id string, opts ...GameOption) *Game {
	g := &Game{
		ID:       id,
		position: engine.NewStandardPosition(),
		clocks: map[engine.Color]*Clock{
			engine.White: NewClock(DefaultClockTime),
			engine.Black: NewClock(DefaultClockTime),
		},
		captured: CapturedPieces{
			White: make([]engine.Piece, 0),
			Black: make([]engine.Piece, 0),
		},
		connections: &GameConnections{
			connections: make(map[string]Conn),
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddPlayer seats a player, white first. A player already seated gets their
// color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.colorOf(playerID); ok {
		return c, nil
	}
	if g.white == "" {
		g.white = playerID
		return engine.White, nil
	}
	if g.black == "" {
		g.black = playerID
		return engine.Black, nil
	}
	return engine.White, ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return engine.White, false
	case playerID == g.white:
		return engine.White, true
	case playerID == g.black:
		return engine.Black, true
	}
	return engine.White, false
}

// MakeMove plays from-to for the player's color and broadcasts the new state.
// Rule violations come back as *engine.MoveError.
func (g *Game) MakeMove(playerID string, from, to engine.Square) (Ply, error) {
	g.mu.Lock()
	wasOver := g.result != nil
	ply, err := g.makeMove(playerID, from, to)
	endedNow := !wasOver && g.result != nil
	g.mu.Unlock()

	if err == nil || endedNow {
		g.broadcastState()
	}
	return ply, err
}

func (g *Game) makeMove(playerID string, from, to engine.Square) (Ply, error) {
	if g.result != nil {
		return Ply{}, ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return Ply{}, ErrNotInGame
	}
	if flagged, ok := g.flagFell(); ok {
		return Ply{}, fmt.Errorf("%w: %s ran out of time", ErrGameOver, flagged)
	}

	turn := g.position.Turn()
	res, err := g.position.Commit(color, from, to)
	if err != nil {
		return Ply{}, err
	}

	opponent := color.Opponent()
	g.clocks[color].Stop()
	g.clocks[opponent].Start()

	check := g.position.InCheck(opponent)
	mate := check && g.position.InCheckmate(opponent)
	ply := newPly(turn, res, check, mate)
	g.history = append(g.history, ply)

	if res.Captured != nil {
		if color == engine.White {
			g.captured.White = append(g.captured.White, *res.Captured)
		} else {
			g.captured.Black = append(g.captured.Black, *res.Captured)
		}
	}
	if mate {
		g.clocks[opponent].Stop()
		g.result = &Result{Reason: ResultCheckmate, Winner: color}
		log.Printf("game %s: %s wins by checkmate", g.ID, color)
	}
	return ply, nil
}

// flagFell ends the game if the side to move has run out of time and
// returns that side.
func (g *Game) flagFell() (engine.Color, bool) {
	mover := g.position.ToMove()
	if !g.clocks[mover].Expired() {
		return mover, false
	}
	g.clocks[mover].Stop()
	g.result = &Result{Reason: ResultTimeout, Winner: mover.Opponent()}
	log.Printf("game %s: %s flagged", g.ID, mover)
	return mover, true
}

// CheckFlag ends the game if the side to move has run out of time and
// reports whether it did.
func (g *Game) CheckFlag() bool {
	g.mu.Lock()
	fell := false
	if g.result == nil {
		_, fell = g.flagFell()
	}
	g.mu.Unlock()

	if fell {
		g.broadcastState()
	}
	return fell
}

// LegalMoves lists where the piece on sq may move.
func (g *Game) LegalMoves(sq engine.Square) []engine.Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := g.position.LegalMoves(sq)
	if moves == nil {
		return []engine.Square{}
	}
	return moves
}

func (g *Game) Result() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result == nil {
		return nil
	}
	r := *g.result
	return &r
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	toMove := g.position.ToMove()
	state := GameState{
		ID:          g.ID,
		Board:       g.position.Grid(),
		FEN:         g.position.FEN(),
		ToMove:      toMove,
		Turn:        g.position.Turn(),
		IsCheck:     g.position.InCheck(toMove),
		MoveHistory: pairPlies(append([]Ply(nil), g.history...)),
		CapturedPieces: CapturedPieces{
			White: append([]engine.Piece{}, g.captured.White...),
			Black: append([]engine.Piece{}, g.captured.Black...),
		},
		Players: Players{
			White: ClientPlayer{ID: g.white, Color: engine.White, TimeLeft: g.clocks[engine.White].tenths()},
			Black: ClientPlayer{ID: g.black, Color: engine.Black, TimeLeft: g.clocks[engine.Black].tenths()},
		},
	}
	if ep := g.position.EnPassant(); ep != nil {
		state.EnPassantTarget = &ep.Capture
	}
	if n := len(g.history); n > 0 {
		last := g.history[n-1]
		state.LastMove = &engine.Move{From: last.From, To: last.To}
	}
	if g.result != nil {
		r := *g.result
		state.Result = &r
	}
	return state
}

// RegisterConnection adds an observer and sends it the current state. Anyone
// may watch; only seated players may move. A second connection for the same
// player is closed and rejected.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	g.broadcastState()
	return nil
}

// UnregisterConnection removes conn if it is still the player's current
// connection.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Printf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

// Send writes msg to one player's connection. Writes are serialized with
// broadcasts.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}
	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState() {
	payload, err := json.Marshal(g.State())
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
