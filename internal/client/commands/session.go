package commands

import (
	"chessrules/internal/board"
	"chessrules/internal/bot"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

// Session is the state of one local terminal game
type Session struct {
	Game    *game.Game
	Bot     bot.Bot
	Out     *display.Renderer
	players [2]core.PlayerType // indexed by color-1
}

// NewSession starts a standard game between the given player types
func NewSession(out *display.Renderer, b bot.Bot, white, black core.PlayerType) *Session {
	s := &Session{
		Bot:     b,
		Out:     out,
		players: [2]core.PlayerType{white, black},
	}
	s.Start(nil)
	return s
}

// Start replaces the current game with a new one from initial, nil for the standard start
func (s *Session) Start(initial *board.Position) {
	s.Game = game.New(initial,
		core.NewPlayer(core.PlayerConfig{Type: s.players[0]}, core.ColorWhite),
		core.NewPlayer(core.PlayerConfig{Type: s.players[1]}, core.ColorBlack),
	)
}

// SetPlayers changes who plays each side of the current and later games
func (s *Session) SetPlayers(white, black core.PlayerType) {
	s.players = [2]core.PlayerType{white, black}
	s.Game.UpdatePlayers(
		core.NewPlayer(core.PlayerConfig{Type: white}, core.ColorWhite),
		core.NewPlayer(core.PlayerConfig{Type: black}, core.ColorBlack),
	)
}

// maxBotMoves bounds one PlayBots call; two bots with bare kings never finish
const maxBotMoves = 400

// PlayBots lets computer players move until a human is to move or the game ends
func (s *Session) PlayBots() {
	for n := 0; !s.Game.State().IsOver() && s.Game.NextPlayer().Type == core.PlayerComputer; n++ {
		if n == maxBotMoves {
			s.Out.Info("Stopped after %d computer moves", maxBotMoves)
			return
		}
		move, ok := s.Bot.ChooseMove(s.Game)
		if !ok {
			return
		}
		result, err := s.Game.AttemptMove(move.From, move.To)
		if err == nil && result.Outcome == game.OutcomePromotionPending {
			result, err = s.Game.Promote(move.To, s.Bot.ChoosePromotion())
		}
		if err != nil {
			s.Out.Error(err)
			return
		}
		s.Out.Result(result)
	}
}

// Show draws the board with optional destination hints
func (s *Session) Show(hints []board.Square) {
	names := make([]string, 0, len(hints))
	for _, sq := range hints {
		names = append(names, sq.String())
	}
	s.Out.Board(s.Game.BoardSnapshot(), names)
	s.Out.State(s.Game.State())
}
