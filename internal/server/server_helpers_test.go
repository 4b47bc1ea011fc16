package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"schockstemmer/internal/config"
	"schockstemmer/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "server.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	srv := New(conn, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	return doAuthRequest(t, ts, method, path, payload, "")
}

func doAuthRequest(t *testing.T, ts *httptest.Server, method, path string, payload any, token string) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func issueIdentity(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/identity", map[string]string{
		"name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("expected token string, got %#v", body["token"])
	}
	return token
}

func createGame(t *testing.T, ts *httptest.Server, token string) (int, int, string) {
	t.Helper()
	resp := doAuthRequest(t, ts, http.MethodPost, "/api/games", nil, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["game_id"].(float64)), int(body["player_id"].(float64)), body["join_code"].(string)
}

func joinPlayer(t *testing.T, ts *httptest.Server, gameID int, name string) int {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+strconv.Itoa(gameID)+"/join", map[string]string{
		"name": name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["player_id"].(float64))
}

func fetchSnapshot(t *testing.T, ts *httptest.Server, gameID int) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+strconv.Itoa(gameID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func activeRoundID(t *testing.T, snapshot map[string]any) int {
	t.Helper()
	round, ok := snapshot["active_round"].(map[string]any)
	if !ok {
		t.Fatalf("expected active round, got %#v", snapshot["active_round"])
	}
	return int(round["id"].(float64))
}
