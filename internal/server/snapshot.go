package server

import (
	"schockstemmer/internal/game"
)

// snapshot is the single payload pushed to every live-play subscriber and
// returned by the game GET endpoint. Shot totals are recomputed from the
// finished rounds on every call rather than maintained incrementally.
func snapshot(details *game.Details) map[string]any {
	players := make([]map[string]any, 0, len(details.Players))
	for _, player := range details.Players {
		players = append(players, map[string]any{
			"id":       player.ID,
			"name":     player.Name,
			"is_host":  player.IsHost,
			"has_left": player.HasLeft,
			"shots":    game.PlayerShots(player.ID, details.Rounds, details.Votes),
		})
	}

	rounds := make([]map[string]any, 0, len(details.Rounds))
	for _, round := range details.Rounds {
		rounds = append(rounds, map[string]any{
			"id":          round.ID,
			"number":      round.Number,
			"status":      round.Status,
			"loser_id":    round.LoserID,
			"finished_at": round.FinishedAt,
		})
	}

	var activeRound map[string]any
	votes := make([]map[string]any, 0)
	if details.ActiveRound != nil {
		activeRound = map[string]any{
			"id":       details.ActiveRound.ID,
			"number":   details.ActiveRound.Number,
			"status":   details.ActiveRound.Status,
			"loser_id": details.ActiveRound.LoserID,
		}
		for _, vote := range details.ActiveVotes() {
			votes = append(votes, map[string]any{
				"round_id":     vote.RoundID,
				"voter_id":     vote.VoterID,
				"voted_for_id": vote.VotedForID,
			})
		}
	}

	return map[string]any{
		"game": map[string]any{
			"id":          details.Game.ID,
			"join_code":   details.Game.JoinCode,
			"status":      details.Game.Status,
			"loser_id":    details.Game.LoserID,
			"finished_at": details.Game.FinishedAt,
			"created_at":  details.Game.CreatedAt,
		},
		"players":      players,
		"rounds":       rounds,
		"active_round": activeRound,
		"votes":        votes,
	}
}
