package domain

// ObjectiveCategory groups the secret objective pool.
type ObjectiveCategory string

const (
	ObjectiveCompetitive ObjectiveCategory = "competitive"
	ObjectiveCooperative ObjectiveCategory = "cooperative"
	ObjectiveSabotage    ObjectiveCategory = "sabotage"
)

// SecretObjective is a private scoring goal dealt once at round setup.
// Pool entries act as templates; a dealt copy has TargetPlayerID filled in
// when RequiresTarget is set and its Text placeholder substituted.
type SecretObjective struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Category ObjectiveCategory `json:"category"`
	Points   int               `json:"points"`

	RequiresTarget       bool `json:"requiresTarget,omitempty"`
	GameEndCondition     bool `json:"gameEndCondition,omitempty"`
	ImmediateCheck       bool `json:"immediateCheck,omitempty"`
	ImmediateCheckOnGoal bool `json:"immediateCheckOnGoal,omitempty"`
	CounterMax           int  `json:"counterMax,omitempty"`

	TargetPlayerID string `json:"targetPlayerId,omitempty"`
	Achieved       bool   `json:"achieved"`
	Progress       int    `json:"progress"`
}
