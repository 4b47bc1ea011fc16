package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game is one hosted session, joined via a short code.
type Game struct {
	ID          uint       `gorm:"primaryKey"`
	JoinCode    string     `gorm:"size:12;uniqueIndex;not null"`
	Status      string     `gorm:"size:32;not null"`
	HostSubject string     `gorm:"size:128;index;not null;default:''"`
	LoserID     *uint      `gorm:"index"`
	FinishedAt  *time.Time ``
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
	Players     []Player
	Rounds      []Round
	Events      []Event
}

// Player is one participant in one game. Players are never deleted;
// leaving only sets HasLeft so historical tallies stay intact.
type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_players_game_name"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_name"`
	Subject   string    `gorm:"size:128;index;not null;default:''"`
	Email     string    `gorm:"size:254;not null;default:''"`
	IsHost    bool      `gorm:"not null;default:false"`
	HasLeft   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Votes     []Vote    `gorm:"foreignKey:VoterID"`
}

// Round is one voting-and-reveal cycle within a game.
type Round struct {
	ID         uint       `gorm:"primaryKey"`
	GameID     uint       `gorm:"index;not null;uniqueIndex:idx_rounds_game_number"`
	Number     int        `gorm:"not null;uniqueIndex:idx_rounds_game_number"`
	Status     string     `gorm:"size:32;not null"`
	LoserID    *uint      `gorm:"index"`
	FinishedAt *time.Time ``
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
	Votes      []Vote
}

// Vote is a voter's current prediction of who stays safe this round.
// The (round, voter) pair is unique; a revote updates VotedForID in place.
type Vote struct {
	ID         uint      `gorm:"primaryKey"`
	RoundID    uint      `gorm:"index;not null;uniqueIndex:idx_votes_round_voter"`
	VoterID    uint      `gorm:"index;not null;uniqueIndex:idx_votes_round_voter"`
	VotedForID uint      `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// Event is an append-only activity log row for a game.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	RoundID   *uint          `gorm:"index"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
