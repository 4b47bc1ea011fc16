package server

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialGame(t *testing.T, tsURL string, gameID int) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(tsURL, "http") + "/ws/games/" + strconv.Itoa(gameID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var snapshot map[string]any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return snapshot
}

func TestWebsocketSendsSnapshotOnConnect(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, joinCode := createGame(t, ts, token)

	conn := dialGame(t, ts.URL, gameID)
	snapshot := readSnapshot(t, conn)
	game := snapshot["game"].(map[string]any)
	if game["join_code"] != joinCode {
		t.Fatalf("expected join code %s in snapshot, got %v", joinCode, game["join_code"])
	}
}

func TestWebsocketBroadcastsOnJoin(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, _ := createGame(t, ts, token)

	conn := dialGame(t, ts.URL, gameID)
	readSnapshot(t, conn) // initial state

	joinPlayer(t, ts, gameID, "Ada")
	snapshot := readSnapshot(t, conn)
	players := snapshot["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("expected 2 players after broadcast, got %d", len(players))
	}
}

func TestWebsocketUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/99999"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("expected handshake to fail for an unknown game")
	}
}
