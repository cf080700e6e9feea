package service

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, initial *board.Position) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return nil, fmt.Errorf("game %s already exists", id)
	}
	if len(s.games) >= MaxGames {
		return nil, fmt.Errorf("%w: %d games", ErrResourceLimit, MaxGames)
	}

	g := game.New(initial, whitePlayer, blackPlayer)
	s.games[id] = &gameEntry{game: g, lastActive: s.now()}

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			InitialFEN:    g.InitialFEN(),
			WhitePlayerID: whitePlayer.ID,
			WhiteType:     int(whitePlayer.Type),
			BlackPlayerID: blackPlayer.ID,
			BlackType:     int(blackPlayer.Type),
			StartTimeUTC:  s.now().UTC(),
		})
		if state := g.State(); state.IsOver() {
			s.store.RecordResult(id, state.String(), s.now().UTC())
		}
	}

	s.log.Info().Str("game", id).Str("fen", g.InitialFEN()).Msg("game created")
	return g, nil
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, whitePlayer, blackPlayer *core.Player) error {
	g, err := s.touch(gameID)
	if err != nil {
		return err
	}
	g.UpdatePlayers(whitePlayer, blackPlayer)
	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return e.game, nil
}

// touch looks a game up and refreshes its activity time
func (s *Service) touch(gameID string) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	e.lastActive = s.now()
	return e.game, nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// MakeMove plays a move in the game and records it once committed
func (s *Service) MakeMove(gameID string, from, to board.Square) (*game.MoveResult, error) {
	g, err := s.touch(gameID)
	if err != nil {
		return nil, err
	}

	result, err := g.AttemptMove(from, to)
	if err != nil {
		s.log.Debug().Str("game", gameID).Str("from", from.String()).Str("to", to.String()).Err(err).Msg("move rejected")
		return nil, err
	}

	s.committed(gameID, result)
	return result, nil
}

// Promote completes a pending promotion
func (s *Service) Promote(gameID string, sq board.Square, kind board.Kind) (*game.MoveResult, error) {
	g, err := s.touch(gameID)
	if err != nil {
		return nil, err
	}

	result, err := g.Promote(sq, kind)
	if err != nil {
		s.log.Debug().Str("game", gameID).Str("square", sq.String()).Err(err).Msg("promotion rejected")
		return nil, err
	}

	s.committed(gameID, result)
	return result, nil
}

// committed notifies waiters and persists a move that changed the game
func (s *Service) committed(gameID string, result *game.MoveResult) {
	if result.Outcome == game.OutcomePromotionPending {
		s.waiter.NotifyChange(gameID)
		return
	}

	s.waiter.NotifyGame(gameID, result.MoveNumber)

	event := s.log.Info()
	if !result.GameState.IsOver() {
		event = s.log.Debug()
	}
	event.Str("game", gameID).
		Str("move", result.Notation()).
		Str("player", result.PlayerColor.Name()).
		Str("outcome", result.Outcome.String()).
		Msg("move committed")

	if s.store == nil {
		return
	}
	now := s.now().UTC()
	s.store.RecordMove(storage.MoveRecord{
		GameID:       gameID,
		MoveNumber:   result.MoveNumber,
		Move:         result.Notation(),
		FENAfterMove: result.FEN,
		PlayerColor:  result.PlayerColor.String(),
		Outcome:      result.Outcome.String(),
		MoveTimeUTC:  now,
	})
	if result.GameState.IsOver() {
		s.store.RecordResult(gameID, result.GameState.String(), now)
	}
}

// UpdateGameState marks a game pending while a computer move is computed, or back to ongoing
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	g, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := g.SetState(state); err != nil {
		return err
	}
	s.waiter.NotifyChange(gameID)
	return nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	g, err := s.touch(gameID)
	if err != nil {
		return err
	}

	originalMoveCount := g.MoveCount()
	if err := g.UndoMoves(count); err != nil {
		return err
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, originalMoveCount-count)
		s.store.RecordResult(gameID, g.State().String(), s.now().UTC())
	}
	return nil
}

// Restart resets a game to its initial position
func (s *Service) Restart(gameID string) error {
	g, err := s.touch(gameID)
	if err != nil {
		return err
	}

	g.Restart()
	s.waiter.NotifyChange(gameID)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, 0)
		s.store.RecordResult(gameID, g.State().String(), s.now().UTC())
	}
	s.log.Info().Str("game", gameID).Msg("game restarted")
	return nil
}

// Terminate ends a game at the player's request
func (s *Service) Terminate(gameID string) error {
	g, err := s.touch(gameID)
	if err != nil {
		return err
	}

	g.Terminate()
	s.waiter.NotifyChange(gameID)

	if s.store != nil {
		s.store.RecordResult(gameID, core.StateTerminated.String(), s.now().UTC())
	}
	s.log.Info().Str("game", gameID).Msg("game terminated")
	return nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	// Notify and remove all waiters before deletion
	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	return nil
}
