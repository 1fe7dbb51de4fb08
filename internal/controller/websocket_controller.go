package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("Failed to register connection: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	game, err := wsc.gameService.Game(gameID)
	if err != nil {
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse error: %v", err)
			wsc.reply(game, playerID, errorMessage(err))
			continue
		}

		if reply := wsc.respond(gameID, playerID, msg); reply != nil {
			wsc.reply(game, playerID, *reply)
		}
	}
}

// respond handles msg and returns what should go back to the sender. A
// failure becomes an error message.
func (wsc *WebSocketController) respond(gameID, playerID string, msg ws.Message) *ws.Message {
	reply, err := wsc.handleMessage(gameID, playerID, msg)
	if err != nil {
		log.Printf("handle error: %v", err)
		m := errorMessage(err)
		return &m
	}
	return reply
}

// handleMessage acts on one inbound message and returns the direct reply,
// if any. State changes reach every observer through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move moveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move.From, move.To)
		return nil, err

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		squares, err := wsc.gameService.LegalMoves(gameID, req.Square)
		if err != nil {
			return nil, err
		}
		reply := ws.LegalMovesReply{Square: req.Square, Moves: make([]string, len(squares))}
		for i, sq := range squares {
			reply.Moves[i] = sq.String()
		}
		m, err := ws.NewMessage(ws.MessageTypeLegalMoves, reply)
		if err != nil {
			return nil, err
		}
		return &m, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) reply(game *model.Game, playerID string, msg ws.Message) {
	if err := game.Send(playerID, msg); err != nil {
		log.Printf("write error: %v", err)
	}
}

// HandleMatchmaking queues the player and waits until a game is found or the
// client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)

	ch := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil {
		_ = c.WriteJSON(errorMessage(err))
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
		if err != nil {
			log.Printf("marshal match event: %v", err)
			return
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("write error: %v", err)
		}
	case <-gone:
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Printf("player %s left matchmaking", playerID)
	}
}

func errorMessage(err error) ws.Message {
	_, code := classify(err)
	msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error(), Code: code})
	return msg
}
