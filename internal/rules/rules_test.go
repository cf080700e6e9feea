package rules

import (
	"testing"

	"chessrules/internal/board"
)

func sq(name string) board.Square {
	s, err := board.ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return s
}

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	p, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

// play applies coordinate moves like "e2e4" and fails the test on any rejection
func play(t *testing.T, p *board.Position, moves ...string) {
	t.Helper()
	for _, m := range moves {
		effect, err := TryApply(p, sq(m[:2]), sq(m[2:4]))
		if err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
		if effect != EffectMoved {
			t.Fatalf("move %s: effect %s", m, effect)
		}
	}
}

func names(squares []board.Square) []string {
	out := make([]string, 0, len(squares))
	for _, s := range squares {
		out = append(out, s.String())
	}
	return out
}
