package game

import (
	"fmt"
	"sync"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/rules"
)

// Outcome classifies the result of an accepted move or promotion
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomePromotionPending
	OutcomePromoted
	OutcomeCheckmate
	OutcomeStalemate
)

func (o Outcome) String() string {
	switch o {
	case OutcomePromotionPending:
		return "promotion pending"
	case OutcomePromoted:
		return "promoted"
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeStalemate:
		return "stalemate"
	default:
		return "moved"
	}
}

// Snapshot is a committed position in the game history
type Snapshot struct {
	Position      board.Position `json:"-"`
	FEN           string         `json:"fen"`
	PreviousMove  string         `json:"previousMove"`
	NextTurnColor core.Color     `json:"nextTurnColor"`
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        board.Move `json:"move"`
	PlayerColor core.Color `json:"playerColor"`
	Outcome     Outcome    `json:"outcome"`
	Winner      core.Color `json:"winner,omitempty"` // set on checkmate
	Check       bool       `json:"check"`            // side now to move is in check
	Promotion   board.Kind `json:"promotion,omitempty"`
	GameState   core.State `json:"gameState"`
	MoveNumber  int        `json:"moveNumber,omitempty"` // committed moves so far, this one included
	FEN         string     `json:"fen,omitempty"`        // position after the move
}

// Notation returns the coordinate form of the move, with the promotion letter if any
func (r *MoveResult) Notation() string {
	s := r.Move.String()
	if r.Promotion != board.NoKind {
		s += string(r.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// Game is the state machine for one game. Every exported method takes the
// game's lock, so concurrent callers are serialized.
type Game struct {
	mu         sync.Mutex
	initial    board.Position
	current    board.Position
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	state      core.State
	pending    *board.Move
	lastResult *MoveResult
}

// New starts a game from the given position. A nil position means the standard start.
func New(initial *board.Position, whitePlayer, blackPlayer *core.Player) *Game {
	if initial == nil {
		initial = board.NewPosition()
	}
	g := &Game{
		initial: *initial,
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.current = g.initial
	g.snapshots = []Snapshot{{
		Position:      g.initial,
		FEN:           g.initial.FEN(),
		NextTurnColor: g.initial.Turn,
	}}
	g.pending = nil
	g.lastResult = nil
	g.state = classify(&g.current)
}

// classify evaluates the side to move: checkmate, stalemate or still ongoing
func classify(p *board.Position) core.State {
	side := p.Turn
	if rules.HasAnyLegalMove(p, side) {
		return core.StateOngoing
	}
	if rules.InCheck(p, side) {
		return core.WinState(core.OppositeColor(side))
	}
	return core.StateStalemate
}

// AttemptMove plays from→to for the side to move. On rejection the game is unchanged.
func (g *Game) AttemptMove(from, to board.Square) (*MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsOver() {
		return nil, fmt.Errorf("%w: %s", rules.ErrGameOver, g.state)
	}
	if g.pending != nil {
		return nil, fmt.Errorf("%w: pawn on %s", rules.ErrPromotionRequired, g.pending.To)
	}

	mover := g.current.Turn
	effect, err := rules.TryApply(&g.current, from, to)
	if err != nil {
		return nil, err
	}

	m := board.Move{From: from, To: to}
	if effect == rules.EffectPromotionPending {
		g.pending = &m
		g.lastResult = &MoveResult{
			Move:        m,
			PlayerColor: mover,
			Outcome:     OutcomePromotionPending,
			GameState:   g.state,
		}
		return g.lastResult, nil
	}

	return g.complete(m, mover, board.NoKind), nil
}

// Promote completes a pending promotion on sq with the chosen kind
func (g *Game) Promote(sq board.Square, kind board.Kind) (*MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsOver() {
		return nil, fmt.Errorf("%w: %s", rules.ErrGameOver, g.state)
	}
	if g.pending == nil {
		return nil, rules.ErrNoPromotionPending
	}
	if sq != g.pending.To {
		return nil, fmt.Errorf("%w: on %s, pending on %s", rules.ErrNoPromotionPending, sq, g.pending.To)
	}

	mover := g.current.Turn
	m := *g.pending
	if err := rules.Promote(&g.current, m, kind); err != nil {
		return nil, err
	}
	g.pending = nil

	return g.complete(m, mover, kind), nil
}

// complete records a committed move and classifies the position for the side now to move
func (g *Game) complete(m board.Move, mover core.Color, promotion board.Kind) *MoveResult {
	g.state = classify(&g.current)

	result := &MoveResult{
		Move:        m,
		PlayerColor: mover,
		Outcome:     OutcomeMoved,
		Check:       rules.InCheck(&g.current, g.current.Turn),
		Promotion:   promotion,
		GameState:   g.state,
	}
	switch g.state {
	case core.StateWhiteWins, core.StateBlackWins:
		result.Outcome = OutcomeCheckmate
		result.Winner = mover
	case core.StateStalemate:
		result.Outcome = OutcomeStalemate
	default:
		if promotion != board.NoKind {
			result.Outcome = OutcomePromoted
		}
	}

	result.FEN = g.current.FEN()
	g.snapshots = append(g.snapshots, Snapshot{
		Position:      g.current,
		FEN:           result.FEN,
		PreviousMove:  result.Notation(),
		NextTurnColor: g.current.Turn,
	})
	result.MoveNumber = len(g.snapshots) - 1
	g.lastResult = result
	return result
}

// LegalDestinations lists the king-safe destinations of the piece on from
func (g *Game) LegalDestinations(from board.Square) ([]board.Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsOver() {
		return nil, fmt.Errorf("%w: %s", rules.ErrGameOver, g.state)
	}
	if g.pending != nil {
		return nil, fmt.Errorf("%w: pawn on %s", rules.ErrPromotionRequired, g.pending.To)
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %s", rules.ErrInvalidSquare, from)
	}
	piece := g.current.Board.At(from)
	if piece.Empty() {
		return nil, fmt.Errorf("%w: %s", rules.ErrEmptySource, from)
	}
	if piece.Color != g.current.Turn {
		return nil, fmt.Errorf("%w: %s is %s", rules.ErrWrongSideToMove, from, piece.Color.Name())
	}
	return rules.LegalDestinations(&g.current, from), nil
}

// LegalMoves lists every legal move of the side to move; empty when the game
// is over or a promotion is pending
func (g *Game) LegalMoves() []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsOver() || g.pending != nil {
		return nil
	}
	return rules.LegalMoves(&g.current)
}

// Restart replaces the game with its initial position
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// Terminate ends the game; every later move or promotion is rejected. A pawn
// still waiting for its promotion goes back to its square.
func (g *Game) Terminate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.current = g.snapshots[len(g.snapshots)-1].Position
		g.pending = nil
	}
	g.state = core.StateTerminated
}

func (g *Game) UndoMoves(count int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == core.StateTerminated {
		return fmt.Errorf("%w: %s", rules.ErrGameOver, g.state)
	}
	if g.pending != nil {
		return fmt.Errorf("%w: pawn on %s", rules.ErrPromotionRequired, g.pending.To)
	}
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.current = g.snapshots[len(g.snapshots)-1].Position
	g.state = classify(&g.current)
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		moves = append(moves, g.snapshots[i].PreviousMove)
	}
	return moves
}

// MoveCount is the number of committed moves
func (g *Game) MoveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.snapshots) - 1
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastResult
}

func (g *Game) State() core.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// SetState marks a non-terminal game as pending or ongoing; terminal states are only reached by play
func (g *Game) SetState(s core.State) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s != core.StateOngoing && s != core.StatePending {
		return fmt.Errorf("cannot set state %s directly", s)
	}
	if g.state.IsOver() {
		return fmt.Errorf("%w: %s", rules.ErrGameOver, g.state)
	}
	g.state = s
	return nil
}

func (g *Game) NextTurnColor() core.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.Turn
}

func (g *Game) NextPlayer() *core.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[g.current.Turn]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[color]
}

func (g *Game) UpdatePlayers(whitePlayer, blackPlayer *core.Player) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[core.ColorWhite] = whitePlayer
	g.players[core.ColorBlack] = blackPlayer
}

// InCheck reports whether the side to move is in check
func (g *Game) InCheck() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return rules.InCheck(&g.current, g.current.Turn)
}

// PendingPromotion returns the square of a pawn awaiting its promotion choice
func (g *Game) PendingPromotion() (board.Square, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return board.Square{}, false
	}
	return g.pending.To, true
}

// Position returns a copy of the current position
func (g *Game) Position() board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// BoardSnapshot returns the board as eight rank strings, rank 8 first
func (g *Game) BoardSnapshot() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.Board.Rows()
}

func (g *Game) ToASCII() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.Board.ToASCII()
}

// CurrentFEN returns the current position in FEN notation
func (g *Game) CurrentFEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.FEN()
}

func (g *Game) InitialFEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshots[0].FEN
}
