package service

import (
	"fmt"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// GameService is the entry point for controllers. It parses square notation
// and delegates to the GameManager.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID, err := gs.gameManager.CreateGame(fen)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Printf("game %s created", gameID)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// HandleMove plays from-to, both in square notation such as "e2".
func (gs *GameService) HandleMove(gameID, playerID, from, to string) (model.Ply, error) {
	fromSq, err := engine.ParseSquare(from)
	if err != nil {
		return model.Ply{}, err
	}
	toSq, err := engine.ParseSquare(to)
	if err != nil {
		return model.Ply{}, err
	}
	return gs.gameManager.MakeMove(gameID, playerID, fromSq, toSq)
}

func (gs *GameService) LegalMoves(gameID, square string) ([]engine.Square, error) {
	sq, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	return gs.gameManager.LegalMoves(gameID, sq)
}

// Game returns the live game, for callers that write to its observers.
func (gs *GameService) Game(gameID string) (*model.Game, error) {
	return gs.gameManager.GetGame(gameID)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
