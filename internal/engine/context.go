package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/heroines-gacha/fights/internal/fight"
)

// InitiativeSides is the number of faces of the initiative die.
const InitiativeSides = 10

// --- Turn context and options ------------------------------------------
type turnContext struct {
	s      *fight.State
	events []fight.Event
	rng    *rand.Rand
	newID  func() string
}

// Option customises a single ResolveTurn call.
type Option func(*turnContext)

// WithRand makes initiative rolls come from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(tc *turnContext) { tc.rng = r }
}

// WithIDGenerator replaces the random UUID generator used for buff ids.
func WithIDGenerator(f func() string) Option {
	return func(tc *turnContext) { tc.newID = f }
}

func newTurnContext(s *fight.State, opts []Option) *turnContext {
	tc := &turnContext{s: s, events: make([]fight.Event, 0, 2*len(s.Characters)), newID: uuid.NewString}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

func (tc *turnContext) add(ev fight.Event) { tc.events = append(tc.events, ev) }

// roll returns a uniform integer in [1, InitiativeSides].
func (tc *turnContext) roll() int {
	if tc.rng != nil {
		return tc.rng.Intn(InitiativeSides) + 1
	}
	return rand.Intn(InitiativeSides) + 1
}
