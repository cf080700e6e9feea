package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"

	"github.com/google/go-cmp/cmp"
)

var startRows = []string{
	"rnbqkbnr", "pppppppp", "........", "........",
	"........", "........", "PPPPPPPP", "RNBQKBNR",
}

func TestBoardPlain(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false).Board(startRows, []string{"e3", "e4", "e2"})

	want := []string{
		"  a b c d e f g h",
		"8 r n b q k b n r 8",
		"7 p p p p p p p p 7",
		"6 . . . . . . . . 6",
		"5 . . . . . . . . 5",
		"4 . . . . * . . . 4",
		"3 . . . . * . . . 3",
		"2 P P P P P P P P 2",
		"1 R N B Q K B N R 1",
		"  a b c d e f g h",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("board (-want +got):\n%s", diff)
	}
}

func TestBoardColor(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).Board(startRows, []string{"e2"})

	out := buf.String()
	if !strings.Contains(out, Green+"P"+Reset) {
		t.Error("highlighted piece not green")
	}
	if !strings.Contains(out, Red+"k"+Reset) || !strings.Contains(out, Blue+"K"+Reset) {
		t.Error("pieces not colored by side")
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		name   string
		result game.MoveResult
		want   string
	}{
		{
			"plain",
			game.MoveResult{Move: board.Move{From: sq("e2"), To: sq("e4")}, PlayerColor: core.ColorWhite},
			"White played e2e4\n",
		},
		{
			"check",
			game.MoveResult{Move: board.Move{From: sq("f1"), To: sq("b5")}, PlayerColor: core.ColorWhite, Check: true},
			"White played f1b5\nCheck\n",
		},
		{
			"pending",
			game.MoveResult{Move: board.Move{From: sq("a2"), To: sq("a1")}, PlayerColor: core.ColorBlack, Outcome: game.OutcomePromotionPending},
			"Black pawn reached a1, choose a piece: q, r, b or n\n",
		},
		{
			"mate",
			game.MoveResult{Move: board.Move{From: sq("d8"), To: sq("h4")}, PlayerColor: core.ColorBlack, Outcome: game.OutcomeCheckmate, Winner: core.ColorBlack, Check: true},
			"Black played d8h4. Checkmate, black wins\n",
		},
		{
			"promoted stalemate",
			game.MoveResult{Move: board.Move{From: sq("a7"), To: sq("a8")}, PlayerColor: core.ColorWhite, Outcome: game.OutcomeStalemate, Promotion: board.Queen},
			"White played a7a8q. Stalemate\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewRenderer(&buf, false).Result(&tt.result)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.Error(errors.New("boom"))
	r.Info("%d games", 3)
	r.State(core.StateOngoing)
	r.State(core.StateWhiteWins)

	want := "Error: boom\n3 games\nGame over: white wins\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if r.Prompt("White") != "White > " {
		t.Errorf("prompt = %q", r.Prompt("White"))
	}
}

// sq parses a literal square name
func sq(name string) board.Square {
	s, err := board.ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return s
}
