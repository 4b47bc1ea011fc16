package server

import (
	"net/http"
	"time"

	"schockstemmer/internal/config"
	"schockstemmer/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	games    *game.Service
	db       *gorm.DB
	ws       *wsHub
	cfg      config.Config
	sessions *sessionStore
	limiter  *rateLimiter
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		games:    game.NewService(conn),
		db:       conn,
		ws:       newWSHub(),
		cfg:      cfg,
		sessions: newSessionStore(),
		limiter:  newRateLimiter(time.Duration(cfg.RateLimitMillis) * time.Millisecond),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /join", s.handleJoinView)
	mux.HandleFunc("GET /join/{code}", s.handleJoinView)
	mux.HandleFunc("GET /play/{gameID}/{playerID}", s.handlePlayerView)
	mux.HandleFunc("POST /api/identity", s.handleIssueIdentity)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/by-code/{code}", s.handleGameByCode)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)
	mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	mux.HandleFunc("POST /api/games/{id}/start", s.handleStartGame)
	mux.HandleFunc("POST /api/games/{id}/rounds", s.handleStartNextRound)
	mux.HandleFunc("POST /api/games/{id}/finish", s.handleFinishGame)
	mux.HandleFunc("POST /api/rounds/{id}/votes", s.handleSubmitVote)
	mux.HandleFunc("POST /api/rounds/{id}/finish", s.handleFinishRound)
	mux.HandleFunc("POST /api/players/{id}/leave", s.handleLeaveGame)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws/games/{id}", s.handleWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
