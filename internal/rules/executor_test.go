package rules

import (
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestTryApplyRejectionsLeavePositionUntouched(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		from    board.Square
		to      board.Square
		wantErr error
	}{
		{"off board", board.StartingFEN, sq("e2"), board.Square{Row: 9, Col: 4}, ErrInvalidSquare},
		{"empty source", board.StartingFEN, sq("e4"), sq("e5"), ErrEmptySource},
		{"wrong side", board.StartingFEN, sq("e7"), sq("e5"), ErrWrongSideToMove},
		{"illegal shape", board.StartingFEN, sq("e2"), sq("e5"), ErrIllegalShape},
		{"pinned piece", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", sq("e2"), sq("d3"), ErrWouldExposeKing},
		{"king into attack", "4k3/8/8/8/8/8/r7/4K3 w - - 0 1", sq("e1"), sq("e2"), ErrWouldExposeKing},
		{"stays in check", "4k3/4r3/8/8/8/8/P7/4K3 w - - 0 1", sq("a2"), sq("a3"), ErrWouldExposeKing},
		{"castle through attacked square", "4k3/8/8/8/8/5r2/8/4K2R w K - 0 1", sq("e1"), sq("g1"), ErrWouldExposeKing},
		{"castle out of check", "4k3/4r3/8/8/8/8/8/4K2R w K - 0 1", sq("e1"), sq("g1"), ErrWouldExposeKing},
		{"castle into check", "4k3/6r1/8/8/8/8/8/4K2R w K - 0 1", sq("e1"), sq("g1"), ErrWouldExposeKing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustFEN(t, tt.fen)
			before := *p

			_, err := TryApply(p, tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TryApply error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(before, *p); diff != "" {
				t.Errorf("rejected move changed the position (-before +after):\n%s", diff)
			}
		})
	}
}

func TestTryApplyCommits(t *testing.T) {
	p := board.NewPosition()
	play(t, p, "e2e4")

	if p.Turn != core.ColorBlack {
		t.Errorf("turn = %s, want black", p.Turn.Name())
	}
	last := p.Previous()
	if last == nil || *last != (board.Move{From: sq("e2"), To: sq("e4")}) {
		t.Errorf("last move = %v, want e2e4", last)
	}
	pawn := p.Board.At(sq("e4"))
	if pawn.Kind != board.Pawn || !pawn.Moved {
		t.Errorf("e4 = %+v, want a moved pawn", pawn)
	}
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; p.FEN() != want {
		t.Errorf("FEN = %s, want %s", p.FEN(), want)
	}

	play(t, p, "g8f6")
	if p.Fullmove != 2 || p.Halfmove != 1 {
		t.Errorf("clocks = %d/%d, want halfmove 1 fullmove 2", p.Halfmove, p.Fullmove)
	}
}

func TestEnPassant(t *testing.T) {
	p := board.NewPosition()
	play(t, p, "e2e4", "h7h6", "e4e5", "d7d5", "e5d6")

	if !p.Board.IsEmpty(sq("d5")) {
		t.Error("captured pawn still on d5")
	}
	if !p.Board.IsEmpty(sq("e5")) {
		t.Error("capturing pawn still on e5")
	}
	if got := p.Board.At(sq("d6")); got.Kind != board.Pawn || got.Color != core.ColorWhite {
		t.Errorf("d6 = %+v, want white pawn", got)
	}
	if p.Halfmove != 0 {
		t.Errorf("halfmove = %d, en passant is a capture", p.Halfmove)
	}
}

func TestEnPassantOnlyImmediately(t *testing.T) {
	p := board.NewPosition()
	play(t, p, "e2e4", "a7a6", "e4e5", "d7d5", "a2a3", "a6a5")

	before := *p
	if _, err := TryApply(p, sq("e5"), sq("d6")); !errors.Is(err, ErrIllegalShape) {
		t.Fatalf("late en passant error = %v, want ErrIllegalShape", err)
	}
	if diff := cmp.Diff(before, *p); diff != "" {
		t.Errorf("position changed:\n%s", diff)
	}
}

func TestEnPassantExposingKing(t *testing.T) {
	// Removing both pawns from rank 5 would open the rook's line to the king
	p := mustFEN(t, "4k3/8/8/r2pP2K/8/8/8/8 w - d6 0 1")
	if _, err := TryApply(p, sq("e5"), sq("d6")); !errors.Is(err, ErrWouldExposeKing) {
		t.Fatalf("error = %v, want ErrWouldExposeKing", err)
	}
}

func TestCastling(t *testing.T) {
	p := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, p, "e1g1")

	if got := p.Board.At(sq("g1")); got.Kind != board.King {
		t.Errorf("g1 = %+v, want king", got)
	}
	if got := p.Board.At(sq("f1")); got.Kind != board.Rook || !got.Moved {
		t.Errorf("f1 = %+v, want moved rook", got)
	}
	if !p.Board.IsEmpty(sq("h1")) || !p.Board.IsEmpty(sq("e1")) {
		t.Error("e1 and h1 should be empty after O-O")
	}
	if p.King(core.ColorWhite) != sq("g1") {
		t.Errorf("king cache = %s, want g1", p.King(core.ColorWhite))
	}

	play(t, p, "e8c8")
	if got := p.Board.At(sq("d8")); got.Kind != board.Rook || got.Color != core.ColorBlack {
		t.Errorf("d8 = %+v, want black rook", got)
	}
	if p.King(core.ColorBlack) != sq("c8") {
		t.Errorf("king cache = %s, want c8", p.King(core.ColorBlack))
	}
	if want := "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2"; p.FEN() != want {
		t.Errorf("FEN = %s, want %s", p.FEN(), want)
	}
}

func TestCastlingRightLostAfterRookMoves(t *testing.T) {
	p := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, p, "h1h2", "a8a7", "h2h1", "a7a8")

	if _, err := TryApply(p, sq("e1"), sq("g1")); !errors.Is(err, ErrIllegalShape) {
		t.Fatalf("castle with moved rook error = %v, want ErrIllegalShape", err)
	}
	play(t, p, "e1c1")
	if _, err := TryApply(p, sq("e8"), sq("c8")); !errors.Is(err, ErrIllegalShape) {
		t.Fatalf("castle with moved rook error = %v, want ErrIllegalShape", err)
	}
}

func TestPromotion(t *testing.T) {
	p := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	effect, err := TryApply(p, sq("a7"), sq("a8"))
	if err != nil {
		t.Fatal(err)
	}
	if effect != EffectPromotionPending {
		t.Fatalf("effect = %s, want promotion pending", effect)
	}
	if p.Turn != core.ColorWhite {
		t.Fatal("turn must not pass before the promotion choice")
	}

	m := board.Move{From: sq("a7"), To: sq("a8")}
	pending := *p
	if err := Promote(p, m, board.King); !errors.Is(err, ErrInvalidPromotionKind) {
		t.Fatalf("promote to king error = %v, want ErrInvalidPromotionKind", err)
	}
	if err := Promote(p, m, board.Pawn); !errors.Is(err, ErrInvalidPromotionKind) {
		t.Fatalf("promote to pawn error = %v, want ErrInvalidPromotionKind", err)
	}
	if diff := cmp.Diff(pending, *p); diff != "" {
		t.Fatalf("rejected promotion changed the position:\n%s", diff)
	}

	if err := Promote(p, m, board.Knight); err != nil {
		t.Fatal(err)
	}
	if got := p.Board.At(sq("a8")); got.Kind != board.Knight || got.Color != core.ColorWhite {
		t.Errorf("a8 = %+v, want white knight", got)
	}
	if p.Turn != core.ColorBlack {
		t.Error("turn should pass after promotion")
	}
	if last := p.Previous(); last == nil || *last != m {
		t.Errorf("last move = %v, want a7a8", last)
	}
}

func TestPromoteWithoutPawn(t *testing.T) {
	p := board.NewPosition()
	m := board.Move{From: sq("e7"), To: sq("e8")}
	if err := Promote(p, m, board.Queen); !errors.Is(err, ErrNoPromotionPending) {
		t.Fatalf("error = %v, want ErrNoPromotionPending", err)
	}
}

func TestCapturePromotionAndCheck(t *testing.T) {
	p := mustFEN(t, "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	effect, err := TryApply(p, sq("a7"), sq("b8"))
	if err != nil || effect != EffectPromotionPending {
		t.Fatalf("a7b8 = %s, %v", effect, err)
	}
	if err := Promote(p, board.Move{From: sq("a7"), To: sq("b8")}, board.Queen); err != nil {
		t.Fatal(err)
	}
	if !InCheck(p, core.ColorBlack) {
		t.Error("new queen on b8 should give check along the rank")
	}
}
