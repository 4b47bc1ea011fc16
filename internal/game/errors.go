package game

import "errors"

// Hard faults. Expected negative join outcomes are returned as a JoinResult
// value instead, since they occur under normal multi-user contention.
var (
	ErrNotAuthenticated = errors.New("not authenticated or missing user information")
	ErrNotHost          = errors.New("only the host can perform this action")
	ErrHostMismatch     = errors.New("unauthorized host action")
	ErrGameNotFound     = errors.New("game not found")
	ErrRoundNotFound    = errors.New("round not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGameNotInLobby   = errors.New("game already started")
	ErrGameNotActive    = errors.New("game is not active")
	ErrGameFinished     = errors.New("game already finished")
	ErrRoundNotFinished = errors.New("previous round not finished")
	ErrRoundFinished    = errors.New("round already finished")
	ErrLoserNotInGame   = errors.New("loser is not a player in this game")
)

// JoinResult is the outcome of a join attempt. Rejections that happen under
// ordinary lobby contention (late joiner, name race) land in Error rather
// than surfacing as a fault.
type JoinResult struct {
	Success  bool
	PlayerID uint
	Error    string
}

// Join rejection reasons, also the wire strings in the join response body.
const (
	JoinErrGameNotFound = "game not found"
	JoinErrStarted      = "game already started"
	JoinErrNameTaken    = "name already taken"
)
