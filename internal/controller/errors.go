package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{engine.ErrMalformedCoordinate, fiber.StatusBadRequest, "malformed_coordinate"},
	{engine.ErrOutOfBounds, fiber.StatusBadRequest, "out_of_bounds"},
	{engine.ErrInvalidFEN, fiber.StatusBadRequest, "invalid_fen"},
	{engine.ErrWrongTurn, fiber.StatusForbidden, "wrong_turn"},
	{model.ErrNotInGame, fiber.StatusForbidden, "not_in_game"},
	{service.ErrGameNotFound, fiber.StatusNotFound, "game_not_found"},
	{model.ErrGameOver, fiber.StatusConflict, "game_over"},
	{model.ErrGameFull, fiber.StatusConflict, "game_full"},
	{model.ErrAlreadyQueued, fiber.StatusConflict, "already_queued"},
	{engine.ErrNoPieceAtSource, fiber.StatusUnprocessableEntity, "no_piece_at_source"},
	{engine.ErrIllegalDestination, fiber.StatusUnprocessableEntity, "illegal_destination"},
	{engine.ErrSelfCheck, fiber.StatusUnprocessableEntity, "self_check"},
}

// classify maps an error to its HTTP status and a stable code for clients.
func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return fiber.StatusInternalServerError, "internal"
}

func sendError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
