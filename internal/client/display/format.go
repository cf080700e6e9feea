package display

import (
	"fmt"

	"chessrules/internal/core"
	"chessrules/internal/game"
)

// Result prints what an accepted move did
func (r *Renderer) Result(result *game.MoveResult) {
	who := r.TurnLabel(result.PlayerColor)
	switch result.Outcome {
	case game.OutcomePromotionPending:
		fmt.Fprintf(r.w, "%s pawn reached %s, choose a piece: q, r, b or n\n", who, result.Move.To)
		return
	case game.OutcomeCheckmate:
		fmt.Fprintf(r.w, "%s played %s. %s\n", who, result.Notation(), paint(r.color, Magenta, "Checkmate, "+result.Winner.Name()+" wins"))
		return
	case game.OutcomeStalemate:
		fmt.Fprintf(r.w, "%s played %s. %s\n", who, result.Notation(), paint(r.color, Magenta, "Stalemate"))
		return
	}

	fmt.Fprintf(r.w, "%s played %s\n", who, result.Notation())
	if result.Check {
		fmt.Fprintln(r.w, paint(r.color, Yellow, "Check"))
	}
}

// Error prints a rejection
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, paint(r.color, Red, "Error: "+err.Error()))
}

// Info prints an informational line
func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintln(r.w, paint(r.color, White, fmt.Sprintf(format, args...)))
}

// State prints a final or pending game state
func (r *Renderer) State(state core.State) {
	if state.IsOver() {
		fmt.Fprintln(r.w, paint(r.color, Magenta, "Game over: "+state.String()))
	}
}
