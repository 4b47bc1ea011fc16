package game

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"schockstemmer/internal/auth"
	"schockstemmer/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxCodeAttempts = 100

// Service holds the game state machine. Every mutation runs as a single
// serializable transaction, so each operation either fully applies or not at
// all; there is no application-level locking on top.
type Service struct {
	db      *gorm.DB
	newCode func() string
}

func NewService(conn *gorm.DB) *Service {
	return &Service{
		db:      conn,
		newCode: NewJoinCode,
	}
}

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

func (s *Service) transact(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn, serializable)
}

type CreateGameResult struct {
	GameID   uint
	PlayerID uint
	JoinCode string
}

// CreateGame opens a new lobby and seats the caller as its host player.
// Requires an authenticated identity with a display name.
func (s *Service) CreateGame(ident *auth.Identity) (CreateGameResult, error) {
	if ident == nil || ident.Subject == "" || ident.Name == "" {
		return CreateGameResult{}, ErrNotAuthenticated
	}
	var result CreateGameResult
	err := s.transact(func(tx *gorm.DB) error {
		code, err := s.uniqueJoinCode(tx)
		if err != nil {
			return err
		}
		game := db.Game{
			JoinCode:    code,
			Status:      StatusLobby,
			HostSubject: ident.Subject,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		host := db.Player{
			GameID:  game.ID,
			Name:    ident.Name,
			Subject: ident.Subject,
			Email:   ident.Email,
			IsHost:  true,
		}
		if err := tx.Create(&host).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, game.ID, nil, &host.ID, "game_created", map[string]any{
			"join_code": code,
		}); err != nil {
			return err
		}
		result = CreateGameResult{GameID: game.ID, PlayerID: host.ID, JoinCode: code}
		return nil
	})
	return result, err
}

func (s *Service) uniqueJoinCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		var count int64
		if err := tx.Model(&db.Game{}).Where("join_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique join code")
}

// JoinGame adds a guest to a lobby. A name held by a departed player
// reactivates that player record instead of creating a new one, so their
// votes and shot totals stay attached across a reconnect.
func (s *Service) JoinGame(gameID uint, guestName, guestEmail string, ident *auth.Identity) (JoinResult, error) {
	var result JoinResult
	err := s.transact(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = JoinResult{Error: JoinErrGameNotFound}
				return nil
			}
			return err
		}
		if game.Status != StatusLobby {
			result = JoinResult{Error: JoinErrStarted}
			return nil
		}

		var existing db.Player
		err := tx.Where("game_id = ? AND name = ?", gameID, guestName).First(&existing).Error
		switch {
		case err == nil && !existing.HasLeft:
			result = JoinResult{Error: JoinErrNameTaken}
			return nil
		case err == nil:
			updates := map[string]any{"has_left": false}
			if ident != nil && ident.Subject != "" {
				updates["subject"] = ident.Subject
			}
			if err := tx.Model(&db.Player{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}
			if err := recordEvent(tx, gameID, nil, &existing.ID, "player_joined", map[string]any{
				"name":     guestName,
				"rejoined": true,
			}); err != nil {
				return err
			}
			result = JoinResult{Success: true, PlayerID: existing.ID}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			player := db.Player{
				GameID: gameID,
				Name:   guestName,
				Email:  guestEmail,
			}
			if ident != nil {
				player.Subject = ident.Subject
			}
			if err := tx.Create(&player).Error; err != nil {
				if isUniqueViolation(err) {
					result = JoinResult{Error: JoinErrNameTaken}
					return nil
				}
				return err
			}
			if err := recordEvent(tx, gameID, nil, &player.ID, "player_joined", map[string]any{
				"name": guestName,
			}); err != nil {
				return err
			}
			result = JoinResult{Success: true, PlayerID: player.ID}
			return nil
		default:
			return err
		}
	})
	return result, err
}

// StartGame moves a lobby to active and opens round 1 in voting status.
func (s *Service) StartGame(gameID, playerID uint, ident *auth.Identity) error {
	return s.transact(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			return asNotFound(err, ErrGameNotFound)
		}
		if err := verifyHost(tx, playerID, gameID, ident); err != nil {
			return err
		}
		if game.Status != StatusLobby {
			return ErrGameNotInLobby
		}
		if err := tx.Model(&db.Game{}).Where("id = ?", gameID).Update("status", StatusActive).Error; err != nil {
			return err
		}
		round := db.Round{GameID: gameID, Number: 1, Status: RoundVoting}
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, gameID, nil, &playerID, "game_started", nil); err != nil {
			return err
		}
		return recordEvent(tx, gameID, &round.ID, nil, "round_started", map[string]any{
			"number": round.Number,
		})
	})
}

// StartNextRound opens a new round numbered one past the highest existing
// round, guaranteeing strictly increasing numbers even across gaps. The
// latest round must already be finished.
func (s *Service) StartNextRound(gameID, playerID uint, ident *auth.Identity) (uint, error) {
	var roundID uint
	err := s.transact(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			return asNotFound(err, ErrGameNotFound)
		}
		if err := verifyHost(tx, playerID, gameID, ident); err != nil {
			return err
		}
		if game.Status != StatusActive {
			return ErrGameNotActive
		}
		var latest db.Round
		err := tx.Where("game_id = ?", gameID).Order("number desc").First(&latest).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrRoundNotFinished
		case err != nil:
			return err
		case latest.Status != RoundFinished:
			return ErrRoundNotFinished
		}
		round := db.Round{GameID: gameID, Number: latest.Number + 1, Status: RoundVoting}
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, gameID, &round.ID, nil, "round_started", map[string]any{
			"number": round.Number,
		}); err != nil {
			return err
		}
		roundID = round.ID
		return nil
	})
	return roundID, err
}

// SubmitVote upserts the voter's prediction for a round, then re-evaluates
// the quorum: once every active player has a vote on record, the round moves
// to pending on its own. Departed players are excluded from the quorum so a
// leaver cannot block progress.
func (s *Service) SubmitVote(roundID, voterID, votedForID uint) error {
	return s.transact(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			return asNotFound(err, ErrRoundNotFound)
		}
		if round.Status == RoundFinished {
			return ErrRoundFinished
		}

		var existing db.Vote
		err := tx.Where("round_id = ? AND voter_id = ?", roundID, voterID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&db.Vote{}).Where("id = ?", existing.ID).Update("voted_for_id", votedForID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := db.Vote{RoundID: roundID, VoterID: voterID, VotedForID: votedForID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			return err
		}
		if err := recordEvent(tx, round.GameID, &roundID, &voterID, "vote_submitted", map[string]any{
			"voted_for_id": votedForID,
		}); err != nil {
			return err
		}

		var activePlayers int64
		if err := tx.Model(&db.Player{}).Where("game_id = ? AND has_left = ?", round.GameID, false).Count(&activePlayers).Error; err != nil {
			return err
		}
		var votes int64
		if err := tx.Model(&db.Vote{}).Where("round_id = ?", roundID).Count(&votes).Error; err != nil {
			return err
		}
		if votes >= activePlayers && round.Status == RoundVoting {
			if err := tx.Model(&db.Round{}).Where("id = ?", roundID).Update("status", RoundPending).Error; err != nil {
				return err
			}
			return recordEvent(tx, round.GameID, &roundID, nil, "round_pending", map[string]any{
				"votes": votes,
			})
		}
		return nil
	})
}

// FinishRound records the loser the host declared and closes the round.
func (s *Service) FinishRound(roundID, playerID, loserID uint, ident *auth.Identity) error {
	return s.transact(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			return asNotFound(err, ErrRoundNotFound)
		}
		if err := verifyHost(tx, playerID, round.GameID, ident); err != nil {
			return err
		}
		if round.Status == RoundFinished {
			return ErrRoundFinished
		}
		var loser db.Player
		if err := tx.First(&loser, loserID).Error; err != nil {
			return asNotFound(err, ErrLoserNotInGame)
		}
		if loser.GameID != round.GameID {
			return ErrLoserNotInGame
		}
		now := time.Now().UTC()
		if err := tx.Model(&db.Round{}).Where("id = ?", roundID).Updates(map[string]any{
			"status":      RoundFinished,
			"loser_id":    loserID,
			"finished_at": now,
		}).Error; err != nil {
			return err
		}
		return recordEvent(tx, round.GameID, &roundID, &loserID, "round_finished", map[string]any{
			"loser_id": loserID,
		})
	})
}

// FinishGame closes the session entirely. Terminal; no further rounds.
func (s *Service) FinishGame(gameID, playerID uint, ident *auth.Identity) error {
	return s.transact(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			return asNotFound(err, ErrGameNotFound)
		}
		if err := verifyHost(tx, playerID, gameID, ident); err != nil {
			return err
		}
		if game.Status == StatusFinished {
			return ErrGameFinished
		}
		now := time.Now().UTC()
		if err := tx.Model(&db.Game{}).Where("id = ?", gameID).Updates(map[string]any{
			"status":      StatusFinished,
			"finished_at": now,
		}).Error; err != nil {
			return err
		}
		return recordEvent(tx, gameID, nil, &playerID, "game_finished", nil)
	})
}

// LeaveGame soft-deletes a player. When the host leaves, succession runs
// before the has-left flip: the first remaining active player is promoted,
// and if nobody remains the game is finished instead of being left hostless.
// Never faults; leaving an unknown player is a no-op.
func (s *Service) LeaveGame(playerID uint) error {
	return s.transact(func(tx *gorm.DB) error {
		var player db.Player
		err := tx.First(&player, playerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if player.IsHost {
			var successor db.Player
			err := tx.Where("game_id = ? AND has_left = ? AND id <> ?", player.GameID, false, player.ID).
				Order("id asc").First(&successor).Error
			switch {
			case err == nil:
				if err := tx.Model(&db.Player{}).Where("id = ?", successor.ID).Update("is_host", true).Error; err != nil {
					return err
				}
				if successor.Subject != "" {
					if err := tx.Model(&db.Game{}).Where("id = ?", player.GameID).Update("host_subject", successor.Subject).Error; err != nil {
						return err
					}
				}
				if err := recordEvent(tx, player.GameID, nil, &successor.ID, "host_transferred", map[string]any{
					"from_player_id": player.ID,
				}); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				now := time.Now().UTC()
				if err := tx.Model(&db.Game{}).Where("id = ?", player.GameID).Updates(map[string]any{
					"status":      StatusFinished,
					"finished_at": now,
				}).Error; err != nil {
					return err
				}
				if err := recordEvent(tx, player.GameID, nil, nil, "game_finished", map[string]any{
					"reason": "last player left",
				}); err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Model(&db.Player{}).Where("id = ?", player.ID).Updates(map[string]any{
			"has_left": true,
			"is_host":  false,
		}).Error; err != nil {
			return err
		}
		return recordEvent(tx, player.GameID, nil, &player.ID, "player_left", map[string]any{
			"name": player.Name,
		})
	})
}

// verifyHost gates every host-only mutation: the acting player must exist,
// belong to the game, and hold the host flag; if the player is linked to an
// authenticated identity the caller must present that same identity.
func verifyHost(tx *gorm.DB, playerID, gameID uint, ident *auth.Identity) error {
	var player db.Player
	if err := tx.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotHost
		}
		return err
	}
	if player.GameID != gameID || !player.IsHost {
		return ErrNotHost
	}
	if player.Subject != "" && (ident == nil || ident.Subject != player.Subject) {
		return ErrHostMismatch
	}
	return nil
}

func recordEvent(tx *gorm.DB, gameID uint, roundID, playerID *uint, eventType string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:   gameID,
		RoundID:  roundID,
		PlayerID: playerID,
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return tx.Create(&event).Error
}

func asNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
