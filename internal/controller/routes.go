package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes mounts the REST API under /api and the websocket endpoints
// under /ws. origins restricts websocket handshakes; empty allows any.
func SetupRoutes(app *fiber.App, gameService *service.GameService, origins []string) {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}

	// Set up WebSocket routes
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
}
