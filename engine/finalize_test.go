package engine

import (
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/stretchr/testify/assert"
)

// bareExtra returns a playing extra game with objectives cleared so scoring
// assertions stay exact.
func bareExtra(t *testing.T, seed int64) (*Engine, *fakeClock, *domain.Game) {
	e, clk, g := fourPlayerExtra(t, seed)
	for _, p := range g.Players {
		g.State(p).SecretObjective = nil
	}
	return e, clk, g
}

func finishAt(g *domain.Game, playerID string, at time.Time) {
	ts := at
	g.State(playerID).GoalTime = &ts
	g.GoalCount++
	g.PlayerGoalOrder = append(g.PlayerGoalOrder, playerID)
}

func TestFinalize(t *testing.T) {
	t.Run("ranks, placement and solo bonuses", func(t *testing.T) {
		e, clk, g := bareExtra(t, 70)
		finishAt(g, "p1", clk.now())
		clk.tick()
		finishAt(g, "p2", clk.now())
		g.State("p1").Score = 10
		g.State("p2").Score = 8
		g.State("p3").Score = 6
		g.State("p4").Score = 4

		e.Finalize(g)

		assert.Equal(t, domain.StatusFinished, g.Status)
		assert.Equal(t, 1, g.State("p1").Rank)
		assert.Equal(t, 2, g.State("p2").Rank)
		assert.Equal(t, 3, g.State("p3").Rank, "unfinished players rank by score")
		assert.Equal(t, 4, g.State("p4").Rank)

		assert.Equal(t, 10+50+25, g.State("p1").Score, "winner takes placement and solo bonus")
		assert.Equal(t, 8+30, g.State("p2").Score)
		assert.Equal(t, 6, g.State("p3").Score, "no placement bonus without a finish")
		assert.Equal(t, 4, g.State("p4").Score)
		assert.Empty(t, g.CurrentPhase)
		assert.Nil(t, g.PhaseTimerEnd)
	})

	t.Run("personal time overage is fined per interval", func(t *testing.T) {
		e, _, g := bareExtra(t, 71)
		for _, p := range g.Players {
			g.State(p).EverAllied = true // keep the solo bonus out of the math
		}
		limit := int(domain.ExtraModePersonalTimeLimit.Seconds())
		g.State("p1").PersonalTimeUsed = limit + 65 // two full penalty intervals

		e.Finalize(g)

		assert.Equal(t, 2*domain.PersonalTimePenaltyPoints, g.State("p1").Score)
		assert.Zero(t, g.State("p2").Score)
	})

	t.Run("loyal underdog earns the alliance bonus", func(t *testing.T) {
		e, clk, g := bareExtra(t, 72)
		ally(g, "a1", domain.AllianceInformationSharing, "p1", "p2")
		finishAt(g, "p1", clk.now())

		e.Finalize(g)

		assert.Equal(t, 50, g.State("p1").Score, "allied winner gets no solo bonus")
		assert.Equal(t, domain.AllianceLoyaltyBonus, g.State("p2").Score)
	})

	t.Run("surviving full alliance pools half its score", func(t *testing.T) {
		e, _, g := bareExtra(t, 73)
		ally(g, "a1", domain.AllianceFullAlliance, "p1", "p2")
		g.State("p1").Score = 20
		g.State("p2").Score = 10

		e.Finalize(g)

		// pool = (20+10)/2 = 15, split 7 each
		assert.Equal(t, 20/2+7, g.State("p1").Score)
		assert.Equal(t, 10/2+7, g.State("p2").Score)
	})

	t.Run("betrayed full alliance does not pool", func(t *testing.T) {
		e, _, g := bareExtra(t, 74)
		al := ally(g, "a1", domain.AllianceFullAlliance, "p1", "p2")
		al.Status = domain.AllianceBetrayed
		g.State("p1").Score = 20
		g.State("p2").Score = 10

		e.Finalize(g)

		assert.Equal(t, 20, g.State("p1").Score)
		assert.Equal(t, 10, g.State("p2").Score)
	})

	t.Run("end condition objectives settle against final ranks", func(t *testing.T) {
		e, clk, g := bareExtra(t, 75)
		g.State("p1").SecretObjective = &domain.SecretObjective{
			ID: "COMP_TARGET_LAST", Points: 20, RequiresTarget: true,
			GameEndCondition: true, TargetPlayerID: "p4",
		}
		g.State("p2").SecretObjective = &domain.SecretObjective{
			ID: "SAB_BETRAY_AND_WIN", Points: 15, RequiresTarget: true,
			GameEndCondition: true, TargetPlayerID: "p3",
		}
		g.State("p2").BetrayedAllies = []string{"p3"}
		finishAt(g, "p1", clk.now())
		clk.tick()
		finishAt(g, "p2", clk.now())
		g.State("p3").Score = 5 // ranks 3rd, above p4

		e.Finalize(g)

		assert.True(t, g.State("p1").SecretObjective.Achieved, "target finished last")
		assert.True(t, g.State("p2").SecretObjective.Achieved, "traitor outranked the betrayed")
	})

	t.Run("finalize is idempotent", func(t *testing.T) {
		e, clk, g := bareExtra(t, 76)
		finishAt(g, "p1", clk.now())
		g.State("p1").Score = 10

		e.Finalize(g)
		scores := map[string]int{}
		ranks := map[string]int{}
		for _, p := range g.Players {
			scores[p] = g.State(p).Score
			ranks[p] = g.State(p).Rank
		}

		e.Finalize(g)
		for _, p := range g.Players {
			assert.Equal(t, scores[p], g.State(p).Score)
			assert.Equal(t, ranks[p], g.State(p).Rank)
		}
		assert.Equal(t, domain.StatusFinished, g.Status)
	})
}
