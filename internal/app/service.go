package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the snapshot handed out for a game.
type GameState struct {
	ID      string
	Game    domain.Game
	Black   string
	White   string
	Created time.Time
	Updated time.Time
}

// Seat returns the side held by playerID, or Empty for spectators.
func (gs GameState) Seat(playerID string) domain.Cell {
	switch {
	case playerID == "":
		return domain.Empty
	case gs.Black == playerID:
		return domain.Black
	case gs.White == playerID:
		return domain.White
	default:
		return domain.Empty
	}
}

type subscriber struct {
	ch        chan GameState
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// entry is one game instance. mu serializes every access to state and subs.
type entry struct {
	mu     sync.Mutex
	state  GameState
	subs   map[*subscriber]struct{}
	pruned bool
}

func (e *entry) snapshot() GameState {
	cp := e.state
	cp.Game.Skipped = append([]domain.Cell(nil), e.state.Game.Skipped...)
	return cp
}

// publishLocked fans the current snapshot out; slow subscribers are dropped.
func (e *entry) publishLocked() {
	cp := e.snapshot()
	for sub := range e.subs {
		select {
		case sub.ch <- cp:
		default:
			sub.close()
			delete(e.subs, sub)
		}
	}
}

// Service manages games and subscribers.
type Service struct {
	mu    sync.Mutex
	games map[string]*entry
	now   func() time.Time
}

// NewService creates an empty service.
func NewService() *Service {
	return &Service{games: make(map[string]*entry), now: time.Now}
}

func (s *Service) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	return e, ok
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	id := uuid.NewString()
	now := s.now()
	e := &entry{
		state: GameState{ID: id, Game: domain.New(), Created: now, Updated: now},
		subs:  make(map[*subscriber]struct{}),
	}
	s.mu.Lock()
	s.games[id] = e
	s.mu.Unlock()
	log.Printf("[service] game %s created", id)
	cp := e.snapshot()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := e.snapshot()
	return &cp, true
}

// Join assigns a seat to the player if available; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	e, ok := s.lookup(id)
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := &e.state
	side := gs.Seat(playerID)
	if side == domain.Empty && playerID != "" {
		if gs.Black == "" {
			gs.Black = playerID
			side = domain.Black
		} else if gs.White == "" {
			gs.White = playerID
			side = domain.White
		}
		gs.Updated = s.now()
	}
	cp := e.snapshot()
	return side, &cp, nil
}

// Play validates seat and turn, applies a move, updates timestamps, and broadcasts.
// Moves on one game are applied in arrival order.
func (s *Service) Play(id, playerID string, x, y int) (*GameState, domain.Move, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, domain.Move{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := &e.state
	seat := gs.Seat(playerID)
	if seat == domain.Empty {
		return nil, domain.Move{}, ErrNotAPlayer
	}
	// a finished game reports ErrGameOver to either seat
	if !gs.Game.Over && seat != gs.Game.Turn {
		return nil, domain.Move{}, ErrNotYourTurn
	}
	mv, err := gs.Game.Play(x, y)
	if err != nil {
		return nil, domain.Move{}, err
	}
	gs.Updated = s.now()
	if gs.Game.Over {
		sc := gs.Game.Score()
		log.Printf("[service] game %s over: black=%d white=%d", id, sc.Black, sc.White)
	}
	e.publishLocked()
	cp := e.snapshot()
	return &cp, mv, nil
}

// Reset restarts the game from the opening position. Seats are kept.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := &e.state
	if gs.Seat(playerID) == domain.Empty {
		return nil, ErrNotAPlayer
	}
	gs.Game.Reset()
	gs.Updated = s.now()
	log.Printf("[service] game %s reset", id)
	e.publishLocked()
	cp := e.snapshot()
	return &cp, nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
// The channel is closed on unsubscribe, on ctx cancellation, when the subscriber
// falls behind, or when the game is pruned. It is nil when the game does not exist.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func()) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, func() {}
	}
	_, ch, unsub, _ := s.watch(ctx, e)
	return ch, unsub
}

// Watch is Subscribe plus the snapshot the subscription starts from. Every
// value received on the channel is at least as new as that snapshot.
func (s *Service) Watch(ctx context.Context, id string) (*GameState, <-chan GameState, func(), error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, nil, func() {}, ErrNotFound
	}
	return s.watch(ctx, e)
}

func (s *Service) watch(ctx context.Context, e *entry) (*GameState, <-chan GameState, func(), error) {
	sub := &subscriber{ch: make(chan GameState, 1)}
	e.mu.Lock()
	if e.pruned {
		e.mu.Unlock()
		sub.close()
		return nil, sub.ch, func() {}, ErrNotFound
	}
	e.subs[sub] = struct{}{}
	cp := e.snapshot()
	e.mu.Unlock()

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			e.mu.Lock()
			delete(e.subs, sub)
			e.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return &cp, sub.ch, unsub, nil
}

// Prune removes games not updated within ttl and closes their subscribers.
func (s *Service) Prune(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	n := 0

	s.mu.Lock()
	for id, e := range s.games {
		e.mu.Lock()
		if e.state.Updated.Before(cutoff) {
			delete(s.games, id)
			e.pruned = true
			for sub := range e.subs {
				sub.close()
				delete(e.subs, sub)
			}
			n++
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	if n > 0 {
		log.Printf("[service] pruned %d idle games", n)
	}
	return n
}

// Len returns the number of live games.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
