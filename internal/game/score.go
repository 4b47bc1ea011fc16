package game

import "schockstemmer/internal/db"

// PlayerShots computes the total shots one player owes across the given
// rounds. Only finished rounds with a recorded loser count:
//
//   - the loser drinks 1, or 2 if their own vote pointed at themselves
//   - everyone else who voted for the loser drinks 1 as a drinking buddy
//
// The result depends only on the contents of rounds and votes, not on their
// order, so it can be recomputed from scratch on every query.
func PlayerShots(playerID uint, rounds []db.Round, votes []db.Vote) int {
	votesByRound := make(map[uint]map[uint]uint, len(rounds))
	for _, vote := range votes {
		byVoter := votesByRound[vote.RoundID]
		if byVoter == nil {
			byVoter = make(map[uint]uint)
			votesByRound[vote.RoundID] = byVoter
		}
		byVoter[vote.VoterID] = vote.VotedForID
	}

	total := 0
	for _, round := range rounds {
		if round.Status != RoundFinished || round.LoserID == nil {
			continue
		}
		loserID := *round.LoserID
		votedForID, voted := votesByRound[round.ID][playerID]
		if playerID == loserID {
			if voted && votedForID == playerID {
				total += 2
			} else {
				total++
			}
		} else if voted && votedForID == loserID {
			total++
		}
	}
	return total
}
