package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

// ClientPlayer is a seat as sent to clients. An empty ID is an open seat.
// TimeLeft is in tenths of a second.
type ClientPlayer struct {
	ID       string       `json:"id"`
	Color    engine.Color `json:"color"`
	TimeLeft int          `json:"timeLeft"`
}
