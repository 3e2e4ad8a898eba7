package domain

import "time"

// PlayerResult is one player's line in an archived match.
type PlayerResult struct {
	PlayerID          string `bson:"playerId" json:"playerId"`
	Rank              int    `bson:"rank" json:"rank"`
	Score             int    `bson:"score" json:"score"`
	ReachedGoal       bool   `bson:"reachedGoal" json:"reachedGoal"`
	ObjectiveID       string `bson:"objectiveId,omitempty" json:"objectiveId,omitempty"`
	ObjectiveAchieved bool   `bson:"objectiveAchieved,omitempty" json:"objectiveAchieved,omitempty"`
}

// MatchRecord is the archived summary of a finished game.
type MatchRecord struct {
	GameID     string         `bson:"_id" json:"gameId"`
	Mode       GameMode       `bson:"mode" json:"mode"`
	GameType   GameType       `bson:"gameType" json:"gameType"`
	Rounds     int            `bson:"rounds" json:"rounds"`
	FinishedAt time.Time      `bson:"finishedAt" json:"finishedAt"`
	Results    []PlayerResult `bson:"results" json:"results"`
}

// NewMatchRecord summarizes a finished game for archival.
func NewMatchRecord(g *Game, finishedAt time.Time) *MatchRecord {
	rec := &MatchRecord{
		GameID:     g.ID,
		Mode:       g.Mode,
		GameType:   g.GameType,
		Rounds:     g.RoundNumber,
		FinishedAt: finishedAt,
	}
	for _, p := range g.Players {
		ps := g.State(p)
		if ps == nil {
			continue
		}
		res := PlayerResult{
			PlayerID:    p,
			Rank:        ps.Rank,
			Score:       ps.Score,
			ReachedGoal: ps.GoalTime != nil,
		}
		if ps.SecretObjective != nil {
			res.ObjectiveID = ps.SecretObjective.ID
			res.ObjectiveAchieved = ps.SecretObjective.Achieved
		}
		rec.Results = append(rec.Results, res)
	}
	return rec
}
