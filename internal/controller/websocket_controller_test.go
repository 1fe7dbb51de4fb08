package controller

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/go-cmp/cmp"
)

func newTestWebSocketController(t *testing.T) (*WebSocketController, string) {
	t.Helper()
	gs := service.NewGameService(service.NewGameManager(time.Minute))
	id, err := gs.CreateGame("")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	_, _ = gs.JoinGame(id, "alice")
	_, _ = gs.JoinGame(id, "bob")
	return NewWebSocketController(gs), id
}

func TestHandleLegalMovesMessage(t *testing.T) {
	wsc, id := newTestWebSocketController(t)

	reply, err := wsc.handleMessage(id, "alice", ws.Message{
		Type:    ws.MessageTypeLegalMoves,
		Payload: json.RawMessage(`{"square":"e2"}`),
	})
	if err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if reply == nil || reply.Type != ws.MessageTypeLegalMoves {
		t.Fatalf("reply = %+v", reply)
	}
	var got ws.LegalMovesReply
	if err := json.Unmarshal(reply.Payload, &got); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	want := ws.LegalMovesReply{Square: "e2", Moves: []string{"e3", "e4"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleMoveMessage(t *testing.T) {
	wsc, id := newTestWebSocketController(t)

	reply, err := wsc.handleMessage(id, "alice", ws.Message{
		Type:    ws.MessageTypeMove,
		Payload: json.RawMessage(`{"from":"e2","to":"e4"}`),
	})
	if err != nil || reply != nil {
		t.Fatalf("move reply = %+v, err = %v", reply, err)
	}

	_, err = wsc.handleMessage(id, "alice", ws.Message{
		Type:    ws.MessageTypeMove,
		Payload: json.RawMessage(`{"from":"d2","to":"d4"}`),
	})
	if !errors.Is(err, engine.ErrWrongTurn) {
		t.Errorf("second white move error = %v, want ErrWrongTurn", err)
	}

	msg := errorMessage(err)
	var payload ws.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if msg.Type != ws.MessageTypeError || payload.Code != "wrong_turn" {
		t.Errorf("error message = %s %+v", msg.Type, payload)
	}
}

func TestHandleUnknownMessage(t *testing.T) {
	wsc, id := newTestWebSocketController(t)
	if _, err := wsc.handleMessage(id, "alice", ws.Message{Type: "resign"}); err == nil {
		t.Error("unknown message type accepted")
	}
}

func TestRespondTurnsErrorsIntoMessages(t *testing.T) {
	wsc, id := newTestWebSocketController(t)

	tests := []struct {
		name   string
		player string
		msg    ws.Message
		want   *ws.ErrorPayload
	}{
		{
			name:   "legal move has no direct reply",
			player: "alice",
			msg:    ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"from":"e2","to":"e4"}`)},
		},
		{
			name:   "illegal destination",
			player: "bob",
			msg:    ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"from":"g8","to":"g6"}`)},
			want:   &ws.ErrorPayload{Code: "illegal_destination"},
		},
		{
			name:   "malformed square",
			player: "alice",
			msg:    ws.Message{Type: ws.MessageTypeLegalMoves, Payload: json.RawMessage(`{"square":"z9"}`)},
			want:   &ws.ErrorPayload{Code: "malformed_coordinate"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := wsc.respond(id, tt.player, tt.msg)
			if tt.want == nil {
				if reply != nil {
					t.Fatalf("reply = %+v, want none", reply)
				}
				return
			}
			if reply == nil || reply.Type != ws.MessageTypeError {
				t.Fatalf("reply = %+v, want error message", reply)
			}
			var got ws.ErrorPayload
			if err := json.Unmarshal(reply.Payload, &got); err != nil {
				t.Fatalf("decode error payload: %v", err)
			}
			if got.Code != tt.want.Code || got.Error == "" {
				t.Errorf("payload = %+v, want code %q", got, tt.want.Code)
			}
		})
	}
}
