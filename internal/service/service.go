package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/heroines-gacha/fights/internal/dedupe"
	"github.com/heroines-gacha/fights/internal/engine"
	"github.com/heroines-gacha/fights/internal/fight"
)

var (
	ErrFightNotFound    = errors.New("fight not found")
	ErrStateUnavailable = errors.New("fight state unavailable")
	ErrInvalidIndex     = errors.New("invalid events index")
	ErrStageNotFound    = errors.New("stage not found")
	ErrStageLocked      = errors.New("stage is locked")
	ErrNoAllies         = errors.New("at least one ally needed")
	ErrUnknownAlly      = errors.New("unknown ally")
	ErrInvalidParty     = errors.New("invalid party")
)

// DefaultStateTTL is how long an untouched fight state is kept.
const DefaultStateTTL = 24 * time.Hour

// ListLimit is the number of fights returned by ListFights.
const ListLimit = 5

// FightRepo is the record storage the service needs.
type FightRepo interface {
	CreateFight(ctx context.Context, r *fight.Record) error
	GetFight(ctx context.Context, id string) (*fight.Record, error)
	SetFightResult(ctx context.Context, id string, result fight.Status) error
	ListFightsByUser(ctx context.Context, userID string, limit int) ([]fight.Record, error)
	HighestBossMapWon(ctx context.Context, userID, campaign string) (int, error)
	HighestStageWon(ctx context.Context, userID, mapID string) (int, error)
}

// StateStore holds the turn-by-turn state blob of each fight.
type StateStore interface {
	LoadState(ctx context.Context, key string) (*fight.State, error)
	StoreState(ctx context.Context, key string, s *fight.State, ttl time.Duration) error
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

// Publisher is notified after every stored turn. newEvents are the events the
// turn appended.
type Publisher interface {
	Publish(fightID string, s *fight.State, newEvents []fight.Event)
}

// Options configures a Service. Repo, States and Catalog are required.
type Options struct {
	Repo      FightRepo
	States    StateStore
	Catalog   *fight.Catalog
	Publisher Publisher
	StateTTL  time.Duration
	// MediaURL prefixes portrait and background paths.
	MediaURL string
	// NewID generates fight and combatant ids. Defaults to uuid.NewString.
	NewID func() string
	// Engine options passed to every resolved turn.
	Engine []engine.Option
}

// Service runs fights on top of the record repository and the state store.
type Service struct {
	repo      FightRepo
	states    StateStore
	catalog   *fight.Catalog
	publisher Publisher
	ttl       time.Duration
	mediaURL  string
	newID     func() string
	engine    []engine.Option
	locks     *dedupe.Locks
}

// New builds a Service from opts.
func New(opts Options) *Service {
	s := &Service{
		repo:      opts.Repo,
		states:    opts.States,
		catalog:   opts.Catalog,
		publisher: opts.Publisher,
		ttl:       opts.StateTTL,
		mediaURL:  opts.MediaURL,
		newID:     opts.NewID,
		engine:    opts.Engine,
		locks:     dedupe.NewLocks(),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultStateTTL
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Catalog returns the design data the service was built with.
func (s *Service) Catalog() *fight.Catalog { return s.catalog }
