package controller

import (
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return sendError(c, err)
	}
	log.Printf("player %s joined game %s as %s", playerID, gameID, color)

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// LegalMoves lists the destinations of the piece on :square.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	playerID := c.Locals("playerID").(string)

	ply, err := gc.gameService.HandleMove(c.Params("gameId"), playerID, req.From, req.To)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(ply)
}
