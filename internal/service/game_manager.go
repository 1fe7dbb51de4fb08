// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager is the registry of live games and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	clockTime        time.Duration
	mu               sync.RWMutex
}

func NewGameManager(clockTime time.Duration) *GameManager {
	if clockTime <= 0 {
		clockTime = model.DefaultClockTime
	}
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		clockTime:        clockTime,
	}
}

// Run pairs queued players and ends games whose side to move has run out of
// time, once per interval, until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
			gm.sweepClocks()
		}
	}
}

// processMatchmaking seats every available pair in a new game and returns
// how many games it created. Players that could not be seated go back to the
// head of the queue for the next tick.
func (gm *GameManager) processMatchmaking() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	created := 0
	var unseated []string
	for {
		white, black, ok := gm.queue.NextPair()
		if !ok {
			break
		}

		gameID := uuid.New().String()
		game := gm.newGame(gameID)
		if err := seatPair(game, white, black); err != nil {
			log.Printf("matchmaking: seat %s and %s: %v", white, black, err)
			unseated = append(unseated, white, black)
			continue
		}
		gm.games[gameID] = game
		created++
		log.Printf("matchmaking: game %s created for %s and %s", gameID, white, black)

		gm.notifyMatch(white, model.MatchFoundEvent{GameID: gameID, Color: engine.White})
		gm.notifyMatch(black, model.MatchFoundEvent{GameID: gameID, Color: engine.Black})
	}
	if len(unseated) > 0 {
		gm.queue.Requeue(unseated...)
	}
	return created
}

// seatPair puts white and black in the game's seats of those colors.
func seatPair(game *model.Game, white, black string) error {
	for _, seat := range []struct {
		playerID string
		color    engine.Color
	}{{white, engine.White}, {black, engine.Black}} {
		c, err := game.AddPlayer(seat.playerID)
		if err != nil {
			return err
		}
		if c != seat.color {
			return fmt.Errorf("%s seated as %s", seat.playerID, c)
		}
	}
	return nil
}

// notifyMatch hands the event to the player's waiting channel, if any, and
// closes it. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Printf("matchmaking: no channel for player %s", playerID)
		return
	}
	delete(gm.matchingChannels, playerID)
	select {
	case ch <- event:
	default:
		log.Printf("matchmaking: failed to send event to player %s", playerID)
	}
	close(ch)
}

func (gm *GameManager) sweepClocks() {
	gm.mu.RLock()
	games := make([]*model.Game, 0, len(gm.games))
	for _, g := range gm.games {
		games = append(games, g)
	}
	gm.mu.RUnlock()

	for _, g := range games {
		if g.CheckFlag() {
			log.Printf("game %s ended on time", g.ID)
		}
	}
}

func (gm *GameManager) newGame(gameID string, opts ...model.GameOption) *model.Game {
	opts = append([]model.GameOption{model.WithClockTime(gm.clockTime)}, opts...)
	return model.NewGame(gameID, opts...)
}

// CreateGame registers a new game. An empty fen starts from the standard
// setup.
func (gm *GameManager) CreateGame(fen string) (string, error) {
	var opts []model.GameOption
	if fen != "" {
		pos, err := engine.ParseFEN(fen)
		if err != nil {
			return "", err
		}
		opts = append(opts, model.WithPosition(pos))
	}

	gameID := uuid.New().String()
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[gameID] = gm.newGame(gameID, opts...)
	return gameID, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) MakeMove(gameID, playerID string, from, to engine.Square) (model.Ply, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Ply{}, err
	}
	return game.MakeMove(playerID, from, to)
}

func (gm *GameManager) LegalMoves(gameID string, sq engine.Square) ([]engine.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(sq), nil
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// RegisterMatchmakingChannel sets where the player's match event is
// delivered. A previous channel for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch without closing it. It is a no-op
// if ch has already been replaced or used.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}
