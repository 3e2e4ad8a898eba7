package engine

import (
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allWait() map[string]domain.Declaration {
	return map[string]domain.Declaration{
		"p1": {Type: domain.ActionWait},
		"p2": {Type: domain.ActionWait},
		"p3": {Type: domain.ActionWait},
		"p4": {Type: domain.ActionWait},
	}
}

func TestRoundCycle(t *testing.T) {
	e, clk, g := fourPlayerExtra(t, 60)

	declareAll(t, e, clk, g, allWait())
	runQueue(t, e, g)
	require.Equal(t, domain.PhaseResultPublication, g.CurrentPhase)

	clk.advance(domain.ResultPublicationDuration + time.Second)
	require.NoError(t, e.AdvancePhase(g))
	require.Equal(t, domain.PhaseChat, g.CurrentPhase)

	clk.advance(domain.ChatPhaseDuration + time.Second)
	require.NoError(t, e.AdvancePhase(g))

	assert.Equal(t, 2, g.RoundNumber)
	assert.Equal(t, domain.PhaseDeclaration, g.CurrentPhase)
	for _, p := range g.Players {
		ps := g.State(p)
		assert.False(t, ps.HasDeclaredThisTurn)
		assert.False(t, ps.ActionExecutedThisTurn)
		assert.Nil(t, ps.DeclaredAction)
		assert.False(t, ps.IsTurnSkipped)
	}
}

func TestRoundWrapPruning(t *testing.T) {
	e, clk, g := fourPlayerExtra(t, 61)

	g.Traps = []*domain.Trap{
		{ID: "t1", Cell: domain.Cell{Row: 1, Col: 1}, OwnerID: "p1", MazeOwnerID: "p2", ExpiryRound: 1},
		{ID: "t2", Cell: domain.Cell{Row: 2, Col: 2}, OwnerID: "p1", MazeOwnerID: "p3", ExpiryRound: 5},
	}
	g.State("p2").SabotageEffects = []domain.SabotageEffect{
		{Type: domain.SabotageInfoJam, SourceID: "p1", ExpiryRound: 1},
		{Type: domain.SabotageConfusion, SourceID: "p1", ExpiryRound: 3},
	}
	expiring := ally(g, "a1", domain.AllianceNonAggression, "p1", "p2")
	expiring.StartRound = -2 // -2 + 3 rounds <= round 2
	forever := ally(g, "a2", domain.AllianceFullAlliance, "p3", "p4")

	declareAll(t, e, clk, g, allWait())
	runQueue(t, e, g)
	clk.advance(domain.ResultPublicationDuration + time.Second)
	require.NoError(t, e.AdvancePhase(g))
	clk.advance(domain.ChatPhaseDuration + time.Second)
	require.NoError(t, e.AdvancePhase(g))
	require.Equal(t, 2, g.RoundNumber)

	require.Len(t, g.Traps, 1)
	assert.Equal(t, "t2", g.Traps[0].ID)

	effects := g.State("p2").SabotageEffects
	require.Len(t, effects, 1)
	assert.Equal(t, domain.SabotageConfusion, effects[0].Type)

	assert.Equal(t, domain.AllianceExpired, expiring.Status)
	assert.Empty(t, g.State("p1").AllianceID)
	assert.Equal(t, domain.AllianceActive, forever.Status)
	assert.Equal(t, "a2", g.State("p3").AllianceID)
}

func TestSpecialEvents(t *testing.T) {
	t.Run("every third round injects one of the fixed events", func(t *testing.T) {
		for seed := int64(0); seed < 12; seed++ {
			e, _ := newTestEngine(seed)
			g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
			g.RoundNumber = 2
			e.wrapRound(g)

			require.Equal(t, 3, g.RoundNumber)
			require.NotNil(t, g.SpecialEvent, "seed %d", seed)
			assert.Contains(t, domain.SpecialEventIDs, g.SpecialEvent.ID)
			assert.Equal(t, 3, g.SpecialEvent.StartRound)

			// shift or not, every maze must stay solvable
			for owner, maze := range g.Mazes {
				assert.True(t, domain.PathExists(maze.Start, maze.Goal, maze.Walls, maze.GridSize),
					"maze of %s unsolvable after event %s (seed %d)", owner, g.SpecialEvent.ID, seed)
			}
		}
	})

	t.Run("off-cycle rounds get no event", func(t *testing.T) {
		e, _ := newTestEngine(62)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		e.wrapRound(g)
		assert.Nil(t, g.SpecialEvent)
		assert.Equal(t, 2, g.RoundNumber)
	})

	t.Run("events lapse at the next wrap", func(t *testing.T) {
		e, _ := newTestEngine(63)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		g.RoundNumber = 2
		e.wrapRound(g)
		require.NotNil(t, g.SpecialEvent)
		e.wrapRound(g)
		assert.Nil(t, g.SpecialEvent)
	})
}

func TestTermination(t *testing.T) {
	t.Run("round cap finishes the game", func(t *testing.T) {
		e, _ := newTestEngine(64)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		g.RoundNumber = domain.MaxRounds
		e.wrapRound(g)
		assert.Equal(t, domain.StatusFinished, g.Status)
	})

	t.Run("overall clock finishes the game", func(t *testing.T) {
		e, clk := newTestEngine(65)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		clk.advance(domain.ExtraModeTotalTimeLimit + time.Minute)
		require.NoError(t, e.AdvancePhase(g))
		assert.Equal(t, domain.StatusFinished, g.Status)
	})

	t.Run("majority at goal finishes the game", func(t *testing.T) {
		e, _ := newTestEngine(66)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		now := e.now()
		g.State("p1").GoalTime = &now
		g.State("p2").GoalTime = &now
		g.GoalCount = 2
		assert.True(t, e.CheckTermination(g))
		assert.Equal(t, domain.StatusFinished, g.Status)
	})
}

func TestAccrueThinkingTime(t *testing.T) {
	e, _ := newTestEngine(67)
	g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
	require.NoError(t, e.Declare(g, "p1", domain.Declaration{Type: domain.ActionWait}))

	e.AccrueThinkingTime(g)
	e.AccrueThinkingTime(g)

	assert.Zero(t, g.State("p1").PersonalTimeUsed, "decided players stop accruing")
	assert.Equal(t, 2, g.State("p2").PersonalTimeUsed)
	assert.Equal(t, 2, g.State("p3").PersonalTimeUsed)
}
