package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/rules"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Start a new game, optionally from a FEN",
		Usage:       "new [fen]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Move a piece",
		Usage:       "move <from> <to> | move <from><to>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "promote",
		ShortName:   "p",
		Description: "Choose the piece for a pawn awaiting promotion",
		Usage:       "promote <q|r|b|n>",
		Handler:     promoteHandler,
	})

	r.Register(&Command{
		Name:        "hints",
		ShortName:   "h",
		Description: "Show where a piece may move",
		Usage:       "hints <square>",
		Handler:     hintsHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "restart",
		ShortName:   "r",
		Description: "Restart from the initial position",
		Usage:       "restart",
		Handler:     restartHandler,
	})

	r.Register(&Command{
		Name:        "quit",
		ShortName:   "q",
		Description: "End the current game",
		Usage:       "quit",
		Handler:     quitHandler,
	})

	r.Register(&Command{
		Name:        "players",
		ShortName:   "pl",
		Description: "Set player types (h = human, c = computer)",
		Usage:       "players <h|c> <h|c>",
		Handler:     playersHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "s",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showHandler,
	})

	r.Register(&Command{
		Name:        "fen",
		ShortName:   "f",
		Description: "Print the position as FEN",
		Usage:       "fen",
		Handler:     fenHandler,
	})

	r.Register(&Command{
		Name:        "history",
		ShortName:   "y",
		Description: "List the moves played",
		Usage:       "history",
		Handler:     historyHandler,
	})
}

func newGameHandler(s *Session, args []string) error {
	var initial *board.Position
	if len(args) > 0 {
		pos, err := rules.ParsePosition(strings.Join(args, " "))
		if err != nil {
			return err
		}
		initial = pos
	}

	s.Start(initial)
	s.Out.Info("New game started")
	s.PlayBots()
	s.Show(nil)
	return nil
}

func moveHandler(s *Session, args []string) error {
	joined := strings.Join(args, "")
	if len(joined) != 4 {
		return fmt.Errorf("usage: move <from> <to>")
	}
	if s.Game.NextPlayer().Type != core.PlayerHuman {
		return fmt.Errorf("not human player's turn")
	}

	from, err := board.ParseSquare(joined[:2])
	if err != nil {
		return err
	}
	to, err := board.ParseSquare(joined[2:])
	if err != nil {
		return err
	}

	result, err := s.Game.AttemptMove(from, to)
	if err != nil {
		return err
	}
	s.Out.Result(result)
	if result.Outcome == game.OutcomePromotionPending {
		return nil
	}

	s.PlayBots()
	s.Show(nil)
	return nil
}

func promoteHandler(s *Session, args []string) error {
	if len(args) != 1 || len(args[0]) != 1 {
		return fmt.Errorf("usage: promote <q|r|b|n>")
	}
	sq, ok := s.Game.PendingPromotion()
	if !ok {
		return fmt.Errorf("no promotion pending")
	}

	result, err := s.Game.Promote(sq, board.KindFromLetter(args[0][0]))
	if err != nil {
		return err
	}
	s.Out.Result(result)

	s.PlayBots()
	s.Show(nil)
	return nil
}

func hintsHandler(s *Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hints <square>")
	}
	from, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	destinations, err := s.Game.LegalDestinations(from)
	if err != nil {
		return err
	}
	if len(destinations) == 0 {
		s.Out.Info("%s has no legal moves", from)
		return nil
	}
	s.Show(destinations)
	return nil
}

func undoHandler(s *Session, args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	if err := s.Game.UndoMoves(count); err != nil {
		return err
	}
	s.Show(nil)
	return nil
}

func restartHandler(s *Session, args []string) error {
	s.Game.Restart()
	s.Out.Info("Game restarted")
	s.PlayBots()
	s.Show(nil)
	return nil
}

func quitHandler(s *Session, args []string) error {
	s.Game.Terminate()
	s.Out.State(s.Game.State())
	return nil
}

func playersHandler(s *Session, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: players <h|c> <h|c>")
	}
	white, err := ParsePlayerType(args[0])
	if err != nil {
		return err
	}
	black, err := ParsePlayerType(args[1])
	if err != nil {
		return err
	}

	s.SetPlayers(white, black)
	s.Out.Info("White: %s, Black: %s", white, black)
	if _, pending := s.Game.PendingPromotion(); !pending {
		s.PlayBots()
	}
	s.Show(nil)
	return nil
}

// ParsePlayerType accepts h, human, c and computer
func ParsePlayerType(arg string) (core.PlayerType, error) {
	switch strings.ToLower(arg) {
	case "h", "human":
		return core.PlayerHuman, nil
	case "c", "computer":
		return core.PlayerComputer, nil
	default:
		return 0, fmt.Errorf("unknown player type: %s", arg)
	}
}

func showHandler(s *Session, args []string) error {
	s.Show(nil)
	if sq, ok := s.Game.PendingPromotion(); ok {
		s.Out.Info("Promotion pending on %s", sq)
	}
	return nil
}

func fenHandler(s *Session, args []string) error {
	s.Out.Info("%s", s.Game.CurrentFEN())
	return nil
}

func historyHandler(s *Session, args []string) error {
	moves := s.Game.Moves()
	if len(moves) == 0 {
		s.Out.Info("No moves played")
		return nil
	}
	var line strings.Builder
	for i, m := range moves {
		if i%2 == 0 {
			fmt.Fprintf(&line, "%d. ", i/2+1)
		}
		line.WriteString(m)
		line.WriteByte(' ')
	}
	s.Out.Info("%s", strings.TrimSpace(line.String()))
	return nil
}
