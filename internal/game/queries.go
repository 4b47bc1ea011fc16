package game

import (
	"errors"
	"sort"
	"strings"
	"time"

	"schockstemmer/internal/auth"
	"schockstemmer/internal/db"
)

// Details is the full state one live-play view subscribes to.
type Details struct {
	Game        db.Game
	Players     []db.Player
	Rounds      []db.Round
	Votes       []db.Vote
	ActiveRound *db.Round
}

// GameByCode looks a game up by its join code, case-normalized.
func (s *Service) GameByCode(code string) (*db.Game, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var game db.Game
	if err := s.db.Where("join_code = ?", normalized).First(&game).Error; err != nil {
		return nil, asNotFound(err, ErrGameNotFound)
	}
	return &game, nil
}

// GameDetails loads a game with its full roster, rounds and votes. The
// active round is the first unfinished one, falling back to the highest
// numbered round once everything is finished.
func (s *Service) GameDetails(gameID uint) (*Details, error) {
	details := &Details{}
	if err := s.db.First(&details.Game, gameID).Error; err != nil {
		return nil, asNotFound(err, ErrGameNotFound)
	}
	if err := s.db.Where("game_id = ?", gameID).Order("id asc").Find(&details.Players).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("game_id = ?", gameID).Order("number asc").Find(&details.Rounds).Error; err != nil {
		return nil, err
	}
	if len(details.Rounds) > 0 {
		roundIDs := make([]uint, 0, len(details.Rounds))
		for _, round := range details.Rounds {
			roundIDs = append(roundIDs, round.ID)
		}
		if err := s.db.Where("round_id IN ?", roundIDs).Order("id asc").Find(&details.Votes).Error; err != nil {
			return nil, err
		}
	}
	for i := range details.Rounds {
		if details.Rounds[i].Status != RoundFinished {
			details.ActiveRound = &details.Rounds[i]
			break
		}
	}
	if details.ActiveRound == nil && len(details.Rounds) > 0 {
		details.ActiveRound = &details.Rounds[len(details.Rounds)-1]
	}
	return details, nil
}

// ActiveVotes returns the votes belonging to the active round.
func (d *Details) ActiveVotes() []db.Vote {
	if d.ActiveRound == nil {
		return nil
	}
	votes := make([]db.Vote, 0, len(d.Votes))
	for _, vote := range d.Votes {
		if vote.RoundID == d.ActiveRound.ID {
			votes = append(votes, vote)
		}
	}
	return votes
}

// RoundByID loads one round record.
func (s *Service) RoundByID(roundID uint) (*db.Round, error) {
	var round db.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		return nil, asNotFound(err, ErrRoundNotFound)
	}
	return &round, nil
}

// PlayerByID loads one player record.
func (s *Service) PlayerByID(playerID uint) (*db.Player, error) {
	var player db.Player
	if err := s.db.First(&player, playerID).Error; err != nil {
		return nil, asNotFound(err, ErrPlayerNotFound)
	}
	return &player, nil
}

// GameEvents returns a game's activity log, oldest first.
func (s *Service) GameEvents(gameID uint) ([]db.Event, error) {
	var events []db.Event
	if err := s.db.Where("game_id = ?", gameID).Order("id asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// GameHistory is one entry of a user's finished-game overview.
type GameHistory struct {
	GameID           uint
	JoinCode         string
	Status           string
	CreatedAt        time.Time
	FinishedAt       *time.Time
	PlayerCount      int
	LoserName        string
	LastRoundNumber  int
	TotalRounds      int
	WorstPlayerName  string
	WorstPlayerShots int
}

// UserGames lists every game the identity ever played in, with per-game shot
// tallies recomputed from the finished rounds.
func (s *Service) UserGames(ident *auth.Identity) ([]GameHistory, error) {
	if ident == nil || ident.Subject == "" {
		return nil, ErrNotAuthenticated
	}
	var memberships []db.Player
	if err := s.db.Where("subject = ?", ident.Subject).Find(&memberships).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(memberships))
	histories := make([]GameHistory, 0, len(memberships))
	for _, membership := range memberships {
		if _, ok := seen[membership.GameID]; ok {
			continue
		}
		seen[membership.GameID] = struct{}{}

		details, err := s.GameDetails(membership.GameID)
		if err != nil {
			if errors.Is(err, ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		histories = append(histories, buildHistory(details))
	}
	sort.Slice(histories, func(i, j int) bool {
		return historySortKey(histories[i]).After(historySortKey(histories[j]))
	})
	return histories, nil
}

func buildHistory(details *Details) GameHistory {
	history := GameHistory{
		GameID:      details.Game.ID,
		JoinCode:    details.Game.JoinCode,
		Status:      details.Game.Status,
		CreatedAt:   details.Game.CreatedAt,
		FinishedAt:  details.Game.FinishedAt,
		PlayerCount: len(details.Players),
	}

	var latest *db.Round
	finished := 0
	for i := range details.Rounds {
		round := &details.Rounds[i]
		if latest == nil || round.Number > latest.Number {
			latest = round
		}
		if round.Status == RoundFinished {
			finished++
		}
	}
	history.TotalRounds = finished
	if latest != nil {
		history.LastRoundNumber = latest.Number
		if latest.LoserID != nil {
			history.LoserName = playerName(details.Players, *latest.LoserID)
		}
	}

	if finished > 0 {
		worstName, worstShots := "", -1
		for _, player := range details.Players {
			shots := PlayerShots(player.ID, details.Rounds, details.Votes)
			if shots > worstShots || (shots == worstShots && player.Name < worstName) {
				worstName, worstShots = player.Name, shots
			}
		}
		history.WorstPlayerName = worstName
		history.WorstPlayerShots = worstShots
	}
	return history
}

func playerName(players []db.Player, playerID uint) string {
	for _, player := range players {
		if player.ID == playerID {
			return player.Name
		}
	}
	return ""
}

func historySortKey(history GameHistory) time.Time {
	if history.FinishedAt != nil {
		return *history.FinishedAt
	}
	return history.CreatedAt
}
