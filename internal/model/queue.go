package model

import (
	"sync"
	"time"
)

type QueuedPlayer struct {
	PlayerID string
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return ErrAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		PlayerID: playerID,
		JoinedAt: time.Now(),
	})
	return nil
}

// RemovePlayer drops a player who stopped waiting. It reports whether the
// player was queued.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.PlayerID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// NextPair pops the two players who have been waiting longest.
func (q *Queue) NextPair() (first, second string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return "", "", false
	}
	first, second = q.players[0].PlayerID, q.players[1].PlayerID
	q.players = q.players[2:]
	return first, second, true
}

// Requeue puts players back at the head of the queue in the given order.
// Players already queued keep their place.
func (q *Queue) Requeue(playerIDs ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queued := make(map[string]bool, len(q.players))
	for _, p := range q.players {
		queued[p.PlayerID] = true
	}
	head := make([]QueuedPlayer, 0, len(playerIDs))
	for _, id := range playerIDs {
		if queued[id] {
			continue
		}
		queued[id] = true
		head = append(head, QueuedPlayer{PlayerID: id, JoinedAt: time.Now()})
	}
	q.players = append(head, q.players...)
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
