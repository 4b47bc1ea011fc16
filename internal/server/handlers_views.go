package server

import (
	"log"
	"net/http"

	"schockstemmer/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	flash := ""
	name := ""
	if s.sessions != nil {
		flash = s.sessions.PopFlash(w, r)
		name = s.sessions.GetName(w, r)
	}
	templ.Handler(web.Home(flash, name)).ServeHTTP(w, r)
}

func (s *Server) handleJoinView(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	name := ""
	if s.sessions != nil {
		name = s.sessions.GetName(w, r)
	}
	templ.Handler(web.JoinView(code, name)).ServeHTTP(w, r)
}

func (s *Server) handlePlayerView(w http.ResponseWriter, r *http.Request) {
	gameID, okGame := pathID(r, "gameID")
	playerID, okPlayer := pathID(r, "playerID")
	if !okGame || !okPlayer {
		http.NotFound(w, r)
		return
	}
	player, err := s.games.PlayerByID(playerID)
	if err != nil || player.GameID != gameID {
		if s.sessions != nil {
			s.sessions.SetFlash(w, r, "Game not found. Start a new one or join with a fresh code.")
		}
		log.Printf("player view missing game_id=%d player_id=%d", gameID, playerID)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	templ.Handler(web.PlayerView(gameID, playerID, player.Name)).ServeHTTP(w, r)
}
