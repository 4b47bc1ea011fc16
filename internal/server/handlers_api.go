package server

import (
	"errors"
	"log"
	"net/http"

	"schockstemmer/internal/auth"
	"schockstemmer/internal/game"

	"github.com/google/uuid"
)

type identityRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type joinRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type startRequest struct {
	PlayerID uint `json:"player_id"`
}

type voteRequest struct {
	VoterID    uint `json:"voter_id"`
	VotedForID uint `json:"voted_for_id"`
}

type finishRoundRequest struct {
	PlayerID uint `json:"player_id"`
	LoserID  uint `json:"loser_id"`
}

func (s *Server) handleIssueIdentity(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "identity") {
		return
	}
	var req identityRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ident := auth.Identity{
		Subject: uuid.NewString(),
		Name:    name,
		Email:   email,
	}
	token, err := auth.IssueToken(s.cfg.JWTSecret, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue identity")
		return
	}
	log.Printf("identity issued subject=%s", ident.Subject)
	writeJSON(w, http.StatusCreated, map[string]string{
		"token":   token,
		"subject": ident.Subject,
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	result, err := s.games.CreateGame(ident)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("game created game_id=%d join_code=%s", result.GameID, result.JoinCode)
	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id":   result.GameID,
		"player_id": result.PlayerID,
		"join_code": result.JoinCode,
	})
}

func (s *Server) handleGameByCode(w http.ResponseWriter, r *http.Request) {
	code, err := validateJoinCode(r.PathValue("code"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	found, err := s.games.GameByCode(code)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":   found.ID,
		"join_code": found.JoinCode,
		"status":    found.Status,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	details, err := s.games.GameDetails(gameID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(details))
}

func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.games.GameDetails(gameID); err != nil {
		s.writeGameError(w, err)
		return
	}
	records, err := s.games.GameEvents(gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	events := make([]map[string]any, 0, len(records))
	for _, record := range records {
		events = append(events, map[string]any{
			"id":         record.ID,
			"type":       record.Type,
			"round_id":   record.RoundID,
			"player_id":  record.PlayerID,
			"payload":    record.Payload,
			"created_at": record.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": gameID,
		"events":  events,
	})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "join") {
		return
	}
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	result, err := s.games.JoinGame(gameID, name, email, ident)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if !result.Success {
		status := http.StatusConflict
		if result.Error == game.JoinErrGameNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]any{
			"success": false,
			"error":   result.Error,
		})
		return
	}
	log.Printf("player joined game_id=%d player_id=%d player_name=%s", gameID, result.PlayerID, name)
	if s.sessions != nil {
		s.sessions.SetName(w, r, name)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"game_id":   gameID,
		"player_id": result.PlayerID,
	})
	s.broadcastGame(gameID)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "start") {
		return
	}
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == 0 {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	if err := s.games.StartGame(gameID, req.PlayerID, ident); err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("game started game_id=%d", gameID)
	s.writeSnapshot(w, gameID)
	s.broadcastGame(gameID)
}

func (s *Server) handleStartNextRound(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "next_round") {
		return
	}
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == 0 {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	roundID, err := s.games.StartNextRound(gameID, req.PlayerID, ident)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("round started game_id=%d round_id=%d", gameID, roundID)
	writeJSON(w, http.StatusOK, map[string]any{
		"round_id": roundID,
	})
	s.broadcastGame(gameID)
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "finish_game") {
		return
	}
	gameID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == 0 {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	if err := s.games.FinishGame(gameID, req.PlayerID, ident); err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("game finished game_id=%d", gameID)
	s.writeSnapshot(w, gameID)
	s.broadcastGame(gameID)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "vote") {
		return
	}
	roundID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil || req.VoterID == 0 || req.VotedForID == 0 {
		writeError(w, http.StatusBadRequest, "voter_id and voted_for_id are required")
		return
	}
	if err := s.games.SubmitVote(roundID, req.VoterID, req.VotedForID); err != nil {
		s.writeGameError(w, err)
		return
	}
	round, err := s.games.RoundByID(roundID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("vote submitted round_id=%d voter_id=%d", roundID, req.VoterID)
	s.writeSnapshot(w, round.GameID)
	s.broadcastGame(round.GameID)
}

func (s *Server) handleFinishRound(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "finish_round") {
		return
	}
	roundID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req finishRoundRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == 0 || req.LoserID == 0 {
		writeError(w, http.StatusBadRequest, "player_id and loser_id are required")
		return
	}
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	if err := s.games.FinishRound(roundID, req.PlayerID, req.LoserID, ident); err != nil {
		s.writeGameError(w, err)
		return
	}
	round, err := s.games.RoundByID(roundID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("round finished round_id=%d loser_id=%d", roundID, req.LoserID)
	s.writeSnapshot(w, round.GameID)
	s.broadcastGame(round.GameID)
}

func (s *Server) handleLeaveGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "leave") {
		return
	}
	playerID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	gameID := uint(0)
	if player, err := s.games.PlayerByID(playerID); err == nil {
		gameID = player.GameID
	}
	if err := s.games.LeaveGame(playerID); err != nil {
		s.writeGameError(w, err)
		return
	}
	log.Printf("player left player_id=%d", playerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
	if gameID != 0 {
		s.broadcastGame(gameID)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ident := auth.FromRequest(s.cfg.JWTSecret, r)
	histories, err := s.games.UserGames(ident)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	entries := make([]map[string]any, 0, len(histories))
	for _, history := range histories {
		entries = append(entries, map[string]any{
			"game_id":            history.GameID,
			"join_code":          history.JoinCode,
			"status":             history.Status,
			"created_at":         history.CreatedAt,
			"finished_at":        history.FinishedAt,
			"player_count":       history.PlayerCount,
			"loser_name":         history.LoserName,
			"last_round_number":  history.LastRoundNumber,
			"total_rounds":       history.TotalRounds,
			"worst_player_name":  history.WorstPlayerName,
			"worst_player_shots": history.WorstPlayerShots,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games": entries,
	})
}

func (s *Server) writeSnapshot(w http.ResponseWriter, gameID uint) {
	details, err := s.games.GameDetails(gameID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(details))
}

func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrRoundNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrHostMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrGameNotInLobby),
		errors.Is(err, game.ErrGameNotActive),
		errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrRoundNotFinished),
		errors.Is(err, game.ErrRoundFinished),
		errors.Is(err, game.ErrLoserNotInGame):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error error=%v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
