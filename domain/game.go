package domain

import "time"

// GameMode sets how many players a game seats.
type GameMode string

const (
	ModeTwoPlayer  GameMode = "2player"
	ModeFourPlayer GameMode = "4player"
)

// GameType selects the rules engine a game runs under.
type GameType string

const (
	TypeStandard GameType = "standard"
	TypeExtra    GameType = "extra"
)

// GameStatus is the coarse lifecycle of a game document.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"  // seats open
	StatusCreating GameStatus = "creating" // full, players authoring mazes
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// ExtraPhase is the extra-mode round state machine position.
type ExtraPhase string

const (
	PhaseDeclaration        ExtraPhase = "declaration"
	PhasePriorityResolution ExtraPhase = "priorityResolution"
	PhaseActionExecution    ExtraPhase = "actionExecution"
	PhaseResultPublication  ExtraPhase = "resultPublication"
	PhaseChat               ExtraPhase = "chat"
)

// LogEntry is a public summary of one resolved action or engine event.
type LogEntry struct {
	Round    int       `json:"round"`
	ActorID  string    `json:"actorId,omitempty"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	LoggedAt time.Time `json:"loggedAt"`
}

// SpecialEvent is the round-wide modifier injected on some chat exits.
// It lasts one round and is cleared at the following round wrap.
type SpecialEvent struct {
	ID         string `json:"id"`
	StartRound int    `json:"startRound"`
}

// Battle is the standard-mode betting sub-phase between two co-located
// players. Bets stay nil until each side secretly submits one.
type Battle struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
	BetA    *int   `json:"betA,omitempty"`
	BetB    *int   `json:"betB,omitempty"`
	Cell    Cell   `json:"cell"`
}

// Participant reports whether playerID is one of the two combatants.
func (b *Battle) Participant(playerID string) bool {
	return b.PlayerA == playerID || b.PlayerB == playerID
}

// ChatMessage is one entry from the game's chat stream. System messages
// carry an empty SenderID.
type ChatMessage struct {
	ID       string    `json:"id"`
	SenderID string    `json:"senderId,omitempty"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sentAt"`
}

// PlayerState is the per-player slice of the game document. Created with
// defaults at round setup and frozen at finish.
type PlayerState struct {
	AssignedMazeOwnerID string          `json:"assignedMazeOwnerId"`
	Position            Cell            `json:"position"`
	Score               int             `json:"score"`
	RevealedCells       map[string]bool `json:"revealedCells"`
	GoalTime            *time.Time      `json:"goalTime,omitempty"`
	Rank                int             `json:"rank,omitempty"`

	// standard mode battle bookkeeping
	InBattle bool `json:"inBattle,omitempty"`

	// extra mode
	SecretObjective        *SecretObjective   `json:"secretObjective,omitempty"`
	AllianceID             string             `json:"allianceId,omitempty"`
	EverAllied             bool               `json:"everAllied,omitempty"`
	HasDeclaredThisTurn    bool               `json:"hasDeclaredThisTurn"`
	ActionExecutedThisTurn bool               `json:"actionExecutedThisTurn"`
	DeclaredAction         *Declaration       `json:"declaredAction,omitempty"`
	IsTurnSkipped          bool               `json:"isTurnSkipped,omitempty"`
	PersonalTimeUsed       int                `json:"personalTimeUsed"` // seconds
	ScoutLogs              []ScoutRecord      `json:"scoutLogs,omitempty"`
	SabotageEffects        []SabotageEffect   `json:"sabotageEffects,omitempty"`
	NegotiationOffers      []NegotiationOffer `json:"negotiationOffers,omitempty"`
	BetrayedAllies         []string           `json:"betrayedAllies,omitempty"`
	TemporaryPriorityBoost int                `json:"temporaryPriorityBoost,omitempty"`

	// finalization scratch, set by the scoring pass
	ScoreBeforeAllianceBonus int `json:"scoreBeforeAllianceBonus,omitempty"`
}

// HasEffect reports whether an unexpired effect of the given kind is
// attached to the player at round.
func (ps *PlayerState) HasEffect(kind SabotageKind, round int) bool {
	for _, e := range ps.SabotageEffects {
		if e.Type == kind && e.ExpiryRound >= round {
			return true
		}
	}
	return false
}

// ConsumeEffect removes the first unexpired effect of the given kind and
// reports whether one was found.
func (ps *PlayerState) ConsumeEffect(kind SabotageKind, round int) bool {
	for i, e := range ps.SabotageEffects {
		if e.Type == kind && e.ExpiryRound >= round {
			ps.SabotageEffects = append(ps.SabotageEffects[:i], ps.SabotageEffects[i+1:]...)
			return true
		}
	}
	return false
}

// Game is the aggregate root and the unit of transactional mutation.
// Everything below is value-embedded; the document is the wire format.
type Game struct {
	ID        string     `json:"id"`
	Mode      GameMode   `json:"mode"`
	GameType  GameType   `json:"gameType"`
	Status    GameStatus `json:"status"`
	HostID    string     `json:"hostId"`
	CreatedAt time.Time  `json:"createdAt"`

	Players []string                `json:"players"`
	Mazes   map[string]*Maze        `json:"mazes"`
	States  map[string]*PlayerState `json:"playerStates"`

	TurnOrder           []string `json:"turnOrder,omitempty"`
	CurrentTurnPlayerID string   `json:"currentTurnPlayerId,omitempty"`
	TurnNumber          int      `json:"turnNumber,omitempty"`
	GoalCount           int      `json:"goalCount"`
	PlayerGoalOrder     []string `json:"playerGoalOrder,omitempty"`
	ActiveBattle        *Battle  `json:"activeBattle,omitempty"`

	RoundNumber           int        `json:"roundNumber,omitempty"`
	CurrentPhase          ExtraPhase `json:"currentExtraModePhase,omitempty"`
	CurrentActionPlayerID string     `json:"currentActionPlayerId,omitempty"`
	RoundActionOrder      []string   `json:"roundActionOrder,omitempty"`

	CreationTimerEnd *time.Time `json:"creationTimerEnd,omitempty"`
	PhaseTimerEnd    *time.Time `json:"phaseTimerEnd,omitempty"`
	GameTimerEnd     *time.Time `json:"gameTimerEnd,omitempty"`

	Alliances    []*Alliance   `json:"alliances,omitempty"`
	Traps        []*Trap       `json:"traps,omitempty"`
	ActionLog    []LogEntry    `json:"actionLog,omitempty"`
	SpecialEvent *SpecialEvent `json:"specialEvent,omitempty"`
}

// NewGame creates an empty waiting game hosted by hostID.
func NewGame(id string, mode GameMode, gameType GameType, hostID string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Mode:      mode,
		GameType:  gameType,
		Status:    StatusWaiting,
		HostID:    hostID,
		CreatedAt: now,
		Players:   []string{hostID},
		Mazes:     make(map[string]*Maze),
		States:    make(map[string]*PlayerState),
	}
}

// HasPlayer reports whether playerID has a seat in the game.
func (g *Game) HasPlayer(playerID string) bool {
	for _, p := range g.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// Full reports whether every seat the mode requires is taken.
func (g *Game) Full() bool {
	return len(g.Players) >= RequiredPlayerCount(g.Mode)
}

// State returns the player's state, or nil for unknown ids.
func (g *Game) State(playerID string) *PlayerState {
	return g.States[playerID]
}

// AssignedMaze returns the maze the player is solving.
func (g *Game) AssignedMaze(playerID string) *Maze {
	ps := g.States[playerID]
	if ps == nil {
		return nil
	}
	return g.Mazes[ps.AssignedMazeOwnerID]
}

// ActiveAllianceOf returns the player's live alliance, if any.
func (g *Game) ActiveAllianceOf(playerID string) *Alliance {
	for _, a := range g.Alliances {
		if a.Status == AllianceActive && a.HasMember(playerID) {
			return a
		}
	}
	return nil
}

// AllianceBetween returns the live alliance joining the two players, if any.
func (g *Game) AllianceBetween(a, b string) *Alliance {
	for _, al := range g.Alliances {
		if al.Status == AllianceActive && al.HasMember(a) && al.HasMember(b) {
			return al
		}
	}
	return nil
}

// TrapAt returns the first unexpired trap on the given maze cell that does
// not belong to victimID, or nil.
func (g *Game) TrapAt(mazeOwnerID string, cell Cell, victimID string, round int) *Trap {
	for _, t := range g.Traps {
		if t.MazeOwnerID == mazeOwnerID && t.Cell == cell && t.OwnerID != victimID && t.ExpiryRound >= round {
			return t
		}
	}
	return nil
}

// EventActive reports whether the named special event governs round.
func (g *Game) EventActive(id string, round int) bool {
	return g.SpecialEvent != nil && g.SpecialEvent.ID == id && g.SpecialEvent.StartRound == round
}

// Log appends a public entry to the action log.
func (g *Game) Log(round int, actorID, kind, message string, at time.Time) {
	g.ActionLog = append(g.ActionLog, LogEntry{
		Round:    round,
		ActorID:  actorID,
		Kind:     kind,
		Message:  message,
		LoggedAt: at,
	})
}
