package game

import "crypto/rand"

// Game status is monotonic: lobby -> active -> finished.
const (
	StatusLobby    = "lobby"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Round status is monotonic: voting -> pending -> finished. The voting ->
// pending transition is driven by vote count alone, never by the host.
const (
	RoundVoting   = "voting"
	RoundPending  = "pending"
	RoundFinished = "finished"
)

// Join codes avoid ambiguous characters (no I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// NewJoinCode returns a random 6-character join code.
func NewJoinCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf)
}
