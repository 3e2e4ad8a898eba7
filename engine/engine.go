// Package engine holds the game rules as pure transition functions over the
// game aggregate. Every exported method mutates a *domain.Game in place and
// is meant to run inside a store transaction; methods never perform I/O and
// treat stale preconditions as no-ops where the rules call for idempotence.
package engine

import (
	"errors"
	"math/rand"
	"time"
)

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrWrongStatus      = errors.New("game status does not allow this")
	ErrWrongPhase       = errors.New("phase does not allow this")
	ErrInBattle         = errors.New("movement disabled during battle")
	ErrNoBattle         = errors.New("no active battle")
	ErrAlreadyDeclared  = errors.New("action already declared this round")
	ErrAlreadyAllied    = errors.New("player already holds an alliance")
	ErrOfferNotFound    = errors.New("negotiation offer not found")
	ErrBetOutOfRange    = errors.New("bet outside allowed range")
	ErrUnknownDirection = errors.New("unknown direction")
)

// Engine evaluates rules. The rng drives the probabilistic branches
// (confusion redirects, scout notices, special events) and now supplies
// timestamps, both injected so tests run deterministically.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine seeded from the wall clock unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
