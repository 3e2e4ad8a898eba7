package engine

import (
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveDecl(to domain.Cell) domain.Declaration {
	return domain.Declaration{Type: domain.ActionMove, TargetCell: &to}
}

func TestDeclare(t *testing.T) {
	t.Run("first declaration is final", func(t *testing.T) {
		e, _ := newTestEngine(30)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})

		require.NoError(t, e.Declare(g, "p1", moveDecl(domain.Cell{Row: 0, Col: 1})))
		err := e.Declare(g, "p1", domain.Declaration{Type: domain.ActionWait})
		assert.ErrorIs(t, err, ErrAlreadyDeclared)
		assert.Equal(t, domain.ActionMove, g.State("p1").DeclaredAction.Type)
	})

	t.Run("malformed declarations are rejected", func(t *testing.T) {
		e, _ := newTestEngine(31)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})

		var illegal *domain.IllegalActionError
		assert.ErrorAs(t, e.Declare(g, "p1", domain.Declaration{Type: domain.ActionMove}), &illegal)
		assert.ErrorAs(t, e.Declare(g, "p1", moveDecl(domain.Cell{Row: 3, Col: 3})), &illegal)
		assert.ErrorAs(t, e.Declare(g, "p1", domain.Declaration{Type: domain.ActionScout, TargetID: "p1"}), &illegal)
		assert.ErrorAs(t, e.Declare(g, "p1", domain.Declaration{Type: domain.ActionSabotage, TargetID: "p2", Sabotage: domain.SabotageTrap}), &illegal)
		assert.ErrorAs(t, e.Declare(g, "p1", domain.Declaration{Type: "dance"}), &illegal)
		assert.False(t, g.State("p1").HasDeclaredThisTurn)
	})

	t.Run("all declared moves straight to execution", func(t *testing.T) {
		e, clk := newTestEngine(32)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})

		declareAll(t, e, clk, g, map[string]domain.Declaration{
			"p1": moveDecl(domain.Cell{Row: 0, Col: 1}),
			"p2": {Type: domain.ActionScout, TargetID: "p1"},
			"p3": {Type: domain.ActionSabotage, TargetID: "p4", Sabotage: domain.SabotageInfoJam},
			"p4": {Type: domain.ActionNegotiate, TargetID: "p1", Negotiation: domain.AllianceNonAggression},
		})

		assert.Equal(t, domain.PhaseActionExecution, g.CurrentPhase)
		assert.Equal(t, []string{"p4", "p3", "p2", "p1"}, g.RoundActionOrder,
			"negotiate before sabotage before scout before move")
		assert.Equal(t, "p4", g.CurrentActionPlayerID)
	})

	t.Run("betrayal boost pulls a later action forward", func(t *testing.T) {
		e, clk := newTestEngine(33)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		g.State("p4").TemporaryPriorityBoost = 1

		declareAll(t, e, clk, g, map[string]domain.Declaration{
			"p1": moveDecl(domain.Cell{Row: 0, Col: 1}),
			"p2": {Type: domain.ActionWait},
			"p3": {Type: domain.ActionWait},
			"p4": moveDecl(domain.Cell{Row: 0, Col: 1}),
		})

		require.True(t, len(g.RoundActionOrder) == 4)
		assert.Equal(t, "p4", g.RoundActionOrder[0], "boosted move outranks the earlier one")
		assert.Equal(t, "p1", g.RoundActionOrder[1])
		assert.Zero(t, g.State("p4").TemporaryPriorityBoost, "boost is consumed")
	})

	t.Run("timer expiry defaults stragglers to wait with a penalty", func(t *testing.T) {
		e, clk := newTestEngine(34)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})

		declareAll(t, e, clk, g, map[string]domain.Declaration{
			"p1": moveDecl(domain.Cell{Row: 0, Col: 1}),
			"p2": moveDecl(domain.Cell{Row: 0, Col: 1}),
			"p3": moveDecl(domain.Cell{Row: 0, Col: 1}),
		})
		assert.Equal(t, domain.PhaseDeclaration, g.CurrentPhase)

		clk.advance(domain.DeclarationPhaseDuration + time.Second)
		require.NoError(t, e.AdvancePhase(g))

		straggler := g.State("p4")
		assert.Equal(t, domain.ActionWait, straggler.DeclaredAction.Type)
		assert.Equal(t, domain.DeclarationTimeoutPenalty, straggler.Score)
		assert.Equal(t, domain.PhaseActionExecution, g.CurrentPhase)
	})

	t.Run("advance before the deadline is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(35)
		g := playingGame(t, e, domain.TypeExtra, []string{"p1", "p2", "p3", "p4"})
		require.NoError(t, e.AdvancePhase(g))
		assert.Equal(t, domain.PhaseDeclaration, g.CurrentPhase)
	})
}
