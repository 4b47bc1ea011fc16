package server

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// sessionStore keeps a small per-browser scratchpad (last used name, one
// flash message) behind a cookie. It backs the view handlers only; game
// state never lives here.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionData
}

type sessionData struct {
	Flash string
	Name  string
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]sessionData),
	}
}

func (s *sessionStore) SetFlash(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		return
	}
	id := s.ensureSessionID(w, r)
	s.mu.Lock()
	data := s.sessions[id]
	data.Flash = message
	s.sessions[id] = data
	s.mu.Unlock()
}

func (s *sessionStore) PopFlash(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.sessions[id]
	message := data.Flash
	data.Flash = ""
	s.sessions[id] = data
	return message
}

func (s *sessionStore) SetName(w http.ResponseWriter, r *http.Request, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	id := s.ensureSessionID(w, r)
	s.mu.Lock()
	data := s.sessions[id]
	data.Name = name
	s.sessions[id] = data
	s.mu.Unlock()
}

func (s *sessionStore) GetName(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id].Name
}

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie("ss_session")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "ss_session",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
