// Package main implements a local terminal chess game against another
// person or a random computer player.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessrules/internal/bot"
	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"
	"chessrules/internal/rules"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		white   = flag.String("white", "human", "White player: human or computer")
		black   = flag.String("black", "computer", "Black player: human or computer")
		fen     = flag.String("fen", "", "Starting position (FEN), standard start if empty")
		seed    = flag.Int64("seed", 0, "Random bot seed (0 seeds from the clock)")
		noColor = flag.Bool("no-color", false, "Disable ANSI colors")
	)
	flag.Parse()

	color := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))
	out := display.NewRenderer(os.Stdout, color)

	whiteType, err := commands.ParsePlayerType(*white)
	if err != nil {
		fail(out, err)
	}
	blackType, err := commands.ParsePlayerType(*black)
	if err != nil {
		fail(out, err)
	}

	s := commands.NewSession(out, bot.NewRandom(*seed), whiteType, blackType)
	if *fen != "" {
		initial, err := rules.ParsePosition(*fen)
		if err != nil {
			fail(out, err)
		}
		s.Start(initial)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          out.Prompt("chess"),
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fail(out, err)
	}
	defer rl.Close()

	out.Info("Chess. Type 'help' for commands, moves as 'e2e4' or 'e2 e4'.")
	registry := commands.NewRegistry(s)

	s.PlayBots()
	s.Show(nil)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "x" {
			break
		}

		registry.Execute(line)
	}
}

func buildPrompt(s *commands.Session) string {
	g := s.Game
	if state := g.State(); state.IsOver() {
		return s.Out.Prompt("chess [" + state.String() + "]")
	}

	text := fmt.Sprintf("chess %d. %s", len(g.Moves())/2+1, s.Out.TurnLabel(g.NextTurnColor()))
	if g.InCheck() {
		text += " (check)"
	}
	if sq, ok := g.PendingPromotion(); ok {
		text += " promote " + sq.String()
	}
	return s.Out.Prompt(text)
}

func fail(out *display.Renderer, err error) {
	out.Error(err)
	os.Exit(1)
}
