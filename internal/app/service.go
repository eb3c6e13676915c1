package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("game not found")
	ErrNotAPlayer = errors.New("not a player")
)

// Scoreboard counts finished games of one session across restarts.
type Scoreboard struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Draws        int `json:"draws"`
}

func (sb *Scoreboard) record(o domain.Outcome) {
	switch o {
	case domain.HumanWins:
		sb.HumanWins++
	case domain.ComputerWins:
		sb.ComputerWins++
	case domain.Draw:
		sb.Draws++
	}
}

// Session is a snapshot of one game against the computer.
type Session struct {
	ID      string
	Owner   string
	Game    domain.Game
	Score   Scoreboard
	Created time.Time
	Updated time.Time
}

// entry guards one live session; the service lock only guards the map.
type entry struct {
	mu    sync.Mutex
	state Session
}

func (e *entry) snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// idleSince reports whether the session was last updated more than ttl
// before now. It never blocks: a locked session counts as busy.
func (e *entry) idleSince(now time.Time, ttl time.Duration) bool {
	if !e.mu.TryLock() {
		return false
	}
	defer e.mu.Unlock()
	return now.Sub(e.state.Updated) > ttl
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages game sessions and their subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*entry
	subs   map[string]map[*subscriber]struct{}
	render func(Session) []byte
	log    zerolog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithTTL sets how long an untouched session survives a Sweep.
func WithTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithRenderer(renderer func(Session) []byte) Option {
	return func(s *Service) { s.setRenderer(renderer) }
}

// NewService creates a service with a renderer that broadcasts nothing useful.
func NewService(opts ...Option) *Service {
	s := &Service{
		games: make(map[string]*entry),
		subs:  make(map[string]map[*subscriber]struct{}),
		log:   zerolog.Nop(),
		ttl:   2 * time.Hour,
		now:   time.Now,
	}
	s.setRenderer(nil)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRenderer(renderer)
}

func (s *Service) setRenderer(renderer func(Session) []byte) {
	if renderer == nil {
		renderer = func(Session) []byte { return nil }
	}
	s.render = renderer
}

// CreateGame registers a new game. An empty owner lets the first Claim take the seat.
func (s *Service) CreateGame(owner string) (*Session, error) {
	now := s.now()
	e := &entry{state: Session{
		ID:      uuid.NewString(),
		Owner:   owner,
		Game:    domain.New(),
		Created: now,
		Updated: now,
	}}
	s.mu.Lock()
	s.games[e.state.ID] = e
	s.mu.Unlock()
	s.log.Info().Str("game", e.state.ID).Msg("game created")
	cp := e.state
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	cp := e.snapshot()
	return &cp, true
}

// Claim gives the seat to playerID if it is free and reports whether
// playerID owns the game. Everyone else spectates.
func (s *Service) Claim(id, playerID string) (bool, *Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return false, nil, ErrNotFound
	}
	e.mu.Lock()
	if e.state.Owner == "" && playerID != "" {
		e.state.Owner = playerID
		e.state.Updated = s.now()
	}
	owner := e.state.Owner == playerID
	cp := e.state
	e.mu.Unlock()
	return owner, &cp, nil
}

// Play applies the human move at cell idx and, while the game goes on,
// the computer's reply. Subscribers receive the resulting state.
func (s *Service) Play(id, playerID string, idx int) (*Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	if e.state.Owner != playerID {
		e.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	g, err := e.state.Game.PlayHuman(idx)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	s.log.Debug().Str("game", id).Int("cell", idx).Msg("human move")
	if g.Turn == domain.ComputerToMove && !g.Over() {
		if g, err = g.PlayComputer(); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("computer move: %w", err)
		}
		s.log.Debug().Str("game", id).Int("cell", g.LastMove).Msg("computer move")
	}
	e.state.Game = g
	e.state.Updated = s.now()
	if g.Over() {
		e.state.Score.record(g.Outcome)
		s.log.Info().
			Str("game", id).
			Stringer("outcome", g.Outcome).
			Str("board", g.Board.String()).
			Msg("game finished")
	}
	cp := e.state
	e.mu.Unlock()

	s.publish(cp)
	return &cp, nil
}

// Restart starts a new game in the same session; the scoreboard is kept.
func (s *Service) Restart(id, playerID string) (*Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	if e.state.Owner != playerID {
		e.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	e.state.Game = e.state.Game.Reset()
	e.state.Updated = s.now()
	cp := e.state
	e.mu.Unlock()

	s.log.Debug().Str("game", id).Msg("game restarted")
	s.publish(cp)
	return &cp, nil
}

// Hint scores every human move in the current position, in the
// computer's frame: lower is better for the human.
func (s *Service) Hint(id string) ([]domain.MoveScore, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	g := e.snapshot().Game
	if g.Over() {
		return nil, domain.ErrGameOver
	}
	if g.Turn != domain.HumanToMove {
		return nil, domain.ErrNotYourTurn
	}
	return domain.Analyze(g.Board, domain.Human), nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// Sweep drops sessions not updated within the TTL and closes their
// subscribers. It returns the number of sessions removed. A session whose
// lock is held is in use and is skipped without waiting for it.
func (s *Service) Sweep(now time.Time) int {
	s.mu.Lock()
	removed := 0
	for id, e := range s.games {
		if !e.idleSince(now, s.ttl) {
			continue
		}
		delete(s.games, id)
		for sub := range s.subs[id] {
			sub.close()
		}
		delete(s.subs, id)
		removed++
	}
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("swept idle games")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

func (s *Service) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	return e, ok
}

// publish renders cp and fans it out; slow subscribers are dropped.
// Sends and closes both happen under the service lock.
func (s *Service) publish(cp Session) {
	s.mu.Lock()
	render := s.render
	s.mu.Unlock()
	payload := render(cp)

	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[cp.ID]
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			// drop slow subscriber
			sub.close()
			delete(set, sub)
		}
	}
}
