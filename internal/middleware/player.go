package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDHeader identifies the calling player. Websocket clients that cannot
// set headers pass the playerId query parameter instead.
const PlayerIDHeader = "X-Player-ID"

func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if playerID is already set
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Header and query values alias fasthttp's reused request buffer.
		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
