package commands

import (
	"bytes"
	"strings"
	"testing"

	"chessrules/internal/bot"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

func newRegistry(white, black core.PlayerType) (*Registry, *Session, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSession(display.NewRenderer(&buf, false), bot.NewRandom(5), white, black)
	return NewRegistry(s), s, &buf
}

func TestBareMoves(t *testing.T) {
	r, s, out := newRegistry(core.PlayerHuman, core.PlayerHuman)

	r.Execute("e2e4")
	r.Execute("e7 e5")
	r.Execute("m g1 f3")
	if s.Game.MoveCount() != 3 {
		t.Fatalf("move count = %d\n%s", s.Game.MoveCount(), out)
	}

	out.Reset()
	r.Execute("history")
	if got := strings.TrimSpace(out.String()); got != "1. e2e4 e7e5 2. g1f3" {
		t.Errorf("history = %q", got)
	}

	out.Reset()
	r.Execute("e2e4")
	if !strings.Contains(out.String(), "Error:") {
		t.Errorf("replaying e2e4 should fail: %q", out.String())
	}

	out.Reset()
	r.Execute("dance now please")
	if !strings.Contains(out.String(), "unknown command: dance") {
		t.Errorf("unknown command output: %q", out.String())
	}
}

func TestPromotionCommand(t *testing.T) {
	r, s, out := newRegistry(core.PlayerHuman, core.PlayerHuman)

	r.Execute("new 8/P7/8/8/8/8/8/k6K w - - 0 1")
	r.Execute("a7a8")
	if _, ok := s.Game.PendingPromotion(); !ok {
		t.Fatalf("no pending promotion:\n%s", out)
	}

	out.Reset()
	r.Execute("p k")
	if !strings.Contains(out.String(), "invalid promotion piece") {
		t.Errorf("king promotion output: %q", out.String())
	}

	r.Execute("promote n")
	if got := s.Game.Moves(); len(got) != 1 || got[0] != "a7a8n" {
		t.Errorf("moves = %v", got)
	}
}

func TestHints(t *testing.T) {
	r, _, out := newRegistry(core.PlayerHuman, core.PlayerHuman)

	r.Execute("hints g1")
	if !strings.Contains(out.String(), "3 . . . . . * . * 3") {
		t.Errorf("hints for g1:\n%s", out)
	}

	out.Reset()
	r.Execute("h a1")
	if !strings.Contains(out.String(), "a1 has no legal moves") {
		t.Errorf("hints for a1: %q", out.String())
	}
}

func TestComputerReplies(t *testing.T) {
	r, s, out := newRegistry(core.PlayerHuman, core.PlayerHuman)

	r.Execute("players h c")
	r.Execute("d2d4")
	if s.Game.MoveCount() != 2 || s.Game.NextTurnColor() != core.ColorWhite {
		t.Errorf("bot did not reply: count %d\n%s", s.Game.MoveCount(), out)
	}

	r.Execute("undo 2")
	if s.Game.MoveCount() != 0 {
		t.Errorf("count after undo = %d", s.Game.MoveCount())
	}
}

func TestComputerGameEnds(t *testing.T) {
	_, s, _ := newRegistry(core.PlayerComputer, core.PlayerComputer)

	s.PlayBots()
	if !s.Game.State().IsOver() && s.Game.MoveCount() != maxBotMoves {
		t.Errorf("bots stopped early: %d moves, state %s", s.Game.MoveCount(), s.Game.State())
	}
}

func TestQuitAndRestart(t *testing.T) {
	r, s, out := newRegistry(core.PlayerHuman, core.PlayerHuman)

	r.Execute("e2e4")
	r.Execute("quit")
	if !strings.Contains(out.String(), "Game over: terminated") {
		t.Errorf("quit output: %q", out.String())
	}
	if s.Game.State() != core.StateTerminated {
		t.Fatalf("state = %s", s.Game.State())
	}

	r.Execute("restart")
	if s.Game.State() != core.StateOngoing || s.Game.MoveCount() != 0 {
		t.Errorf("after restart: %s, %d moves", s.Game.State(), s.Game.MoveCount())
	}

	out.Reset()
	r.Execute("fen")
	if got := strings.TrimSpace(out.String()); got != s.Game.CurrentFEN() {
		t.Errorf("fen = %q", got)
	}
}

func TestParsePlayerType(t *testing.T) {
	tests := map[string]core.PlayerType{
		"h": core.PlayerHuman, "Human": core.PlayerHuman,
		"c": core.PlayerComputer, "COMPUTER": core.PlayerComputer,
	}
	for in, want := range tests {
		got, err := ParsePlayerType(in)
		if err != nil || got != want {
			t.Errorf("ParsePlayerType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePlayerType("robot"); err == nil {
		t.Error("robot accepted")
	}
}
