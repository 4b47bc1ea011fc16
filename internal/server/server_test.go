package server

import (
	"net/http"
	"strconv"
	"testing"

	"schockstemmer/internal/game"
)

func TestIssueIdentity(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/api/identity", map[string]string{
		"name": "Mona",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, ok := body["token"].(string); !ok {
		t.Fatalf("expected token string, got %#v", body["token"])
	}
	if _, ok := body["subject"].(string); !ok {
		t.Fatalf("expected subject string, got %#v", body["subject"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/identity", map[string]string{
		"name": "",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for empty name, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCreateGameRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/api/games", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")

	gameID, playerID, joinCode := createGame(t, ts, token)
	if gameID == 0 || playerID == 0 {
		t.Fatalf("expected ids, got game=%d player=%d", gameID, playerID)
	}
	if len(joinCode) != 6 {
		t.Fatalf("expected 6-char join code, got %q", joinCode)
	}

	snapshot := fetchSnapshot(t, ts, gameID)
	game := snapshot["game"].(map[string]any)
	if game["status"] != "lobby" {
		t.Fatalf("expected lobby status, got %v", game["status"])
	}
}

func TestGameByCode(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, joinCode := createGame(t, ts, token)

	resp := doRequest(t, ts, http.MethodGet, "/api/games/by-code/"+joinCode, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if int(body["game_id"].(float64)) != gameID {
		t.Fatalf("expected game %d, got %v", gameID, body["game_id"])
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/by-code/ZZZZZZ", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown code, got %d", http.StatusNotFound, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/by-code/nope", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for malformed code, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// The code lookup lives beside the /api/games/{id} subtree; registering both
// on one mux and serving both must work. ServeMux rejects ambiguous pattern
// pairs at registration, so this also guards Handler() against panicking.
func TestGameRoutesCoexist(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, joinCode := createGame(t, ts, token)

	resp := doRequest(t, ts, http.MethodGet, "/api/games/by-code/"+joinCode, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("code lookup: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+strconv.Itoa(gameID)+"/events", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if events := body["events"].([]any); len(events) == 0 {
		t.Fatal("expected the game_created event in the log")
	}
}

func TestJoinGameValidationAndConflicts(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, _ := createGame(t, ts, token)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/join", map[string]string{
		"name": "",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for empty name, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	joinPlayer(t, ts, gameID, "Ada")
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/join", map[string]string{
		"name": "Ada",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for taken name, got %d", http.StatusConflict, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["success"] != false || body["error"] != game.JoinErrNameTaken {
		t.Fatalf("unexpected conflict body %#v", body)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/99999/join", map[string]string{
		"name": "Ada",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown game, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestStartGameRequiresHostToken(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, hostID, _ := createGame(t, ts, token)
	joinPlayer(t, ts, gameID, "Ada")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/start", map[string]int{
		"player_id": hostID,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d without token, got %d", http.StatusForbidden, resp.StatusCode)
	}

	other := issueIdentity(t, ts, "Eve")
	resp = doAuthRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/start", map[string]int{
		"player_id": hostID,
	}, other)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d with foreign token, got %d", http.StatusForbidden, resp.StatusCode)
	}

	resp = doAuthRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/start", map[string]int{
		"player_id": hostID,
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for host, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestLeaveGame(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, _, _ := createGame(t, ts, token)
	adaID := joinPlayer(t, ts, gameID, "Ada")

	resp := doRequest(t, ts, http.MethodPost, "/api/players/"+strconv.Itoa(adaID)+"/leave", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	snapshot := fetchSnapshot(t, ts, gameID)
	for _, raw := range snapshot["players"].([]any) {
		player := raw.(map[string]any)
		if int(player["id"].(float64)) == adaID && player["has_left"] != true {
			t.Fatalf("expected Ada marked as left, got %#v", player)
		}
	}
}

func TestHistoryRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodGet, "/api/history", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestViews(t *testing.T) {
	ts := newTestServer(t)
	token := issueIdentity(t, ts, "Mona")
	gameID, hostID, joinCode := createGame(t, ts, token)

	for _, path := range []string{"/", "/join", "/join/" + joinCode} {
		resp := doRequest(t, ts, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected status %d, got %d", path, http.StatusOK, resp.StatusCode)
		}
	}

	resp := doRequest(t, ts, http.MethodGet, "/play/"+strconv.Itoa(gameID)+"/"+strconv.Itoa(hostID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for player view, got %d", http.StatusOK, resp.StatusCode)
	}

	// unknown player redirects home with a flash
	resp = doRequest(t, ts, http.MethodGet, "/play/"+strconv.Itoa(gameID)+"/99999", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redirect to home to resolve 200, got %d", resp.StatusCode)
	}
}
