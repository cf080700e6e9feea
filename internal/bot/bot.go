// Package bot provides computer players. Bots only read the legal moves of a
// game and pick one; they never mutate game state themselves.
package bot

import (
	"math/rand"
	"sync"
	"time"

	"chessrules/internal/board"
)

// MoveSource is the read-only view a bot needs of a game
type MoveSource interface {
	LegalMoves() []board.Move
}

// Bot chooses moves for a computer player
type Bot interface {
	Name() string
	// ChooseMove returns false when the source has no legal move
	ChooseMove(src MoveSource) (board.Move, bool)
	ChoosePromotion() board.Kind
}

var promotionKinds = []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight}

// Random picks uniformly among legal moves and promotion pieces
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random bot; seed 0 seeds from the clock
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (b *Random) Name() string {
	return "Random Bot"
}

func (b *Random) ChooseMove(src MoveSource) (board.Move, bool) {
	moves := src.LegalMoves()
	if len(moves) == 0 {
		return board.Move{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return moves[b.rng.Intn(len(moves))], true
}

func (b *Random) ChoosePromotion() board.Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	return promotionKinds[b.rng.Intn(len(promotionKinds))]
}
