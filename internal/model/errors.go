package model

import "errors"

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player not in game")
	ErrGameOver         = errors.New("game is over")
	ErrAlreadyQueued    = errors.New("player already in queue")
	ErrAlreadyConnected = errors.New("connection already exists")
)
