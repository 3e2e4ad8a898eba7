package domain

import "time"

// Grid and maze construction limits.
const (
	StandardGridSize = 6  // grid size for standard games
	ExtraGridSize    = 11 // grid size for extra games
	WallCount        = 20 // exact number of active walls a maze must carry
)

// Phase and game timing.
const (
	DeclarationPhaseDuration   = 30 * time.Second
	ActionExecutionDelay       = 1500 * time.Millisecond
	ResultPublicationDuration  = 10 * time.Second
	ChatPhaseDuration          = 60 * time.Second
	MazeCreationDuration       = 5 * time.Minute
	ExtraModeTotalTimeLimit    = 30 * time.Minute
	ExtraModePersonalTimeLimit = 10 * time.Minute
)

// Penalties. Negative values subtract from score on application.
const (
	PersonalTimePenaltyInterval = 30 // seconds of overage per penalty step
	PersonalTimePenaltyPoints   = -5
	DeclarationTimeoutPenalty   = -5
	AllianceViolationPenalty    = -15
)

// Scoring.
const (
	// DiscoveryPoints* reward revealing a previously unvisited cell.
	// The two modes intentionally value discovery differently.
	DiscoveryPointsStandard = 1
	DiscoveryPointsExtra    = 2

	ScoutPoints           = 3
	SabotageSuccessPoints = 5
	TrapTriggerPoints     = 5 // awarded to the trap owner
	AllianceLoyaltyBonus  = 10
	SoloWinnerBonus       = 25
)

// GoalPlacementBonus is indexed by rank-1 for players who reached their goal.
var GoalPlacementBonus = []int{50, 30, 20, 10}

// Extra mode probabilities and limits.
const (
	ConfusionSuccessChance     = 0.7
	ScoutNoticeChance          = 0.3
	SpecialEventIntervalRounds = 3
	MazeShiftMaxToggles        = 3
	MaxRounds                  = 20
	BetrayalPriorityBoost      = 1
	TrapLifetimeRounds         = 1
)

// FullAllianceShareRate is the fraction of pooled score redistributed
// between members of a surviving full alliance.
const FullAllianceShareRate = 0.5

// Action priority weights. Lower executes earlier.
var ActionPriority = map[ActionType]int{
	ActionNegotiate: 1,
	ActionSabotage:  2,
	ActionScout:     3,
	ActionMove:      4,
	ActionWait:      5,
}

// AllianceDurations maps alliance types to their lifetime in rounds.
// Zero means the alliance never expires on its own.
var AllianceDurations = map[AllianceType]int{
	AllianceNonAggression:      3,
	AllianceInformationSharing: 5,
	AllianceFullAlliance:       0,
}

// SpecialEventIDs are the three events a chat-phase exit may inject.
var SpecialEventIDs = []string{
	SpecialEventInformationLeak,
	SpecialEventCommunicationJam,
	SpecialEventMazeShift,
}

const (
	SpecialEventInformationLeak  = "information_leak"
	SpecialEventCommunicationJam = "communication_jam"
	SpecialEventMazeShift        = "maze_shift"
)

// ObjectivePool is the fixed set of secret objectives dealt at round setup.
// Entries are templates; a dealt objective is a copy with target and
// progress fields filled in.
var ObjectivePool = []SecretObjective{
	{
		ID:                   "COMP_FIRST_GOAL",
		Text:                 "Reach your goal before anyone else while unallied",
		Category:             ObjectiveCompetitive,
		Points:               20,
		ImmediateCheckOnGoal: true,
	},
	{
		ID:               "COMP_TARGET_LAST",
		Text:             "Make %s finish in last place",
		Category:         ObjectiveCompetitive,
		Points:           20,
		RequiresTarget:   true,
		GameEndCondition: true,
	},
	{
		ID:               "COMP_SOLO_TOP3",
		Text:             "Finish in the top 3 without ever forming an alliance",
		Category:         ObjectiveCompetitive,
		Points:           20,
		GameEndCondition: true,
	},
	{
		ID:               "COOP_ALLY_TOP2",
		Text:             "Ally with %s and both finish in the top 2",
		Category:         ObjectiveCooperative,
		Points:           20,
		RequiresTarget:   true,
		GameEndCondition: true,
	},
	{
		ID:             "COOP_LARGE_ALLIANCE",
		Text:           "Form an alliance of 3 or more players",
		Category:       ObjectiveCooperative,
		Points:         20,
		ImmediateCheck: true,
	},
	{
		ID:             "SAB_OBSTRUCT_THRICE",
		Text:           "Successfully sabotage other players 3 times",
		Category:       ObjectiveSabotage,
		Points:         20,
		CounterMax:     3,
		ImmediateCheck: true,
	},
	{
		ID:               "SAB_BETRAY_AND_WIN",
		Text:             "Betray an alliance and outrank %s at the finish",
		Category:         ObjectiveSabotage,
		Points:           15,
		RequiresTarget:   true,
		GameEndCondition: true,
	},
}

// RequiredPlayerCount returns how many players a game mode needs.
func RequiredPlayerCount(mode GameMode) int {
	if mode == ModeTwoPlayer {
		return 2
	}
	return 4
}

// GridSizeFor returns the grid size used by a game type.
func GridSizeFor(t GameType) int {
	if t == TypeExtra {
		return ExtraGridSize
	}
	return StandardGridSize
}

// DiscoveryPointsFor returns the per-cell discovery reward for a game type.
func DiscoveryPointsFor(t GameType) int {
	if t == TypeExtra {
		return DiscoveryPointsExtra
	}
	return DiscoveryPointsStandard
}
