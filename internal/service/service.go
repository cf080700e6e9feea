package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/rs/zerolog"
)

const (
	MaxGames           = 1000
	FinishedGameTTL    = 1 * time.Hour
	IdleGameTTL        = 24 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrResourceLimit = errors.New("game limit reached")
)

type gameEntry struct {
	game       *game.Game
	lastActive time.Time
}

// Service coordinates game state, the wait registry, and optional storage
type Service struct {
	games  map[string]*gameEntry
	mu     sync.RWMutex
	store  *storage.Store
	waiter *WaitRegistry
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a new service instance with optional storage
func New(store *storage.Store, log zerolog.Logger) *Service {
	return &Service{
		games:  make(map[string]*gameEntry),
		store:  store,
		waiter: NewWaitRegistry(),
		log:    log.With().Str("component", "service").Logger(),
		now:    time.Now,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// GameCount returns the number of games held in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*gameEntry)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically evicts finished and abandoned games
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.cleanupExpired(); evicted > 0 {
				s.log.Info().Int("evicted", evicted).Msg("cleanup: evicted expired games")
			}
		}
	}
}

func (s *Service) cleanupExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.games {
		idle := now.Sub(e.lastActive)
		if (e.game.State().IsOver() && idle > FinishedGameTTL) || idle > IdleGameTTL {
			s.waiter.RemoveGame(id)
			delete(s.games, id)
			evicted++
		}
	}
	return evicted
}
