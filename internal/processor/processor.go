package processor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/bot"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/rules"
	"chessrules/internal/service"

	"github.com/rs/zerolog"
)

// Processor handles command execution and coordinates between the service and the bot queue
type Processor struct {
	svc   *service.Service
	queue *BotQueue
	log   zerolog.Logger
}

// New creates a processor whose computer players are driven by b
func New(svc *service.Service, b bot.Bot, workers int, log zerolog.Logger) *Processor {
	log = log.With().Str("component", "processor").Logger()
	return &Processor{
		svc:   svc,
		queue: NewBotQueue(b, workers, log),
		log:   log,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdPromote:
		return p.handlePromote(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdRestart:
		return p.handleRestart(cmd)
	case CmdQuit:
		return p.handleQuit(cmd)
	case CmdBotMove:
		return p.handleBotMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// errorCode maps engine and service errors to API error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return core.ErrGameNotFound
	case errors.Is(err, service.ErrResourceLimit):
		return core.ErrResourceLimit
	case errors.Is(err, rules.ErrInvalidSquare):
		return core.ErrInvalidSquare
	case errors.Is(err, rules.ErrEmptySource):
		return core.ErrEmptySource
	case errors.Is(err, rules.ErrWrongSideToMove):
		return core.ErrWrongSideToMove
	case errors.Is(err, rules.ErrIllegalShape):
		return core.ErrIllegalShape
	case errors.Is(err, rules.ErrWouldExposeKing):
		return core.ErrWouldExposeKing
	case errors.Is(err, rules.ErrPromotionRequired):
		return core.ErrPromotionRequired
	case errors.Is(err, rules.ErrInvalidPromotionKind):
		return core.ErrInvalidPromotionKind
	case errors.Is(err, rules.ErrNoPromotionPending):
		return core.ErrNoPromotionPending
	case errors.Is(err, rules.ErrGameOver):
		return core.ErrGameOver
	default:
		return core.ErrInvalidRequest
	}
}

func (p *Processor) fail(err error) ProcessorResponse {
	return p.errorResponse(err.Error(), errorCode(err))
}

// handleCreateGame creates a new game from the standard start or a FEN
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	initial := board.NewPosition()
	if fen := strings.TrimSpace(args.FEN); fen != "" {
		pos, err := rules.ParsePosition(fen)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidFEN)
		}
		initial = pos
	}

	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)

	gameID := p.svc.GenerateGameID()
	g, err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, initial)
	if err != nil {
		if errors.Is(err, service.ErrResourceLimit) {
			return p.fail(err)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(gameID, g),
	}
}

// handleConfigurePlayers updates player configuration mid-game
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	// Block configuration changes during computer move
	if g.State() == core.StatePending {
		return p.errorResponse("cannot change players while computer is moving", core.ErrInvalidRequest)
	}

	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)

	if err = p.svc.UpdatePlayers(cmd.GameID, whitePlayer, blackPlayer); err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// humanTurn rejects commands that need a human player to move
func (p *Processor) humanTurn(g *game.Game) *ProcessorResponse {
	var resp ProcessorResponse
	switch state := g.State(); {
	case state == core.StatePending:
		resp = p.errorResponse("computer move in progress", core.ErrInvalidRequest)
	case state.IsOver():
		resp = p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	case g.NextPlayer().Type != core.PlayerHuman:
		resp = p.errorResponse("not human player's turn", core.ErrNotHumanTurn)
	default:
		return nil
	}
	return &resp
}

// handleMakeMove processes human moves
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}
	if resp := p.humanTurn(g); resp != nil {
		return *resp
	}

	from, err := board.ParseSquare(strings.TrimSpace(args.From))
	if err != nil {
		return p.fail(err)
	}
	to, err := board.ParseSquare(strings.TrimSpace(args.To))
	if err != nil {
		return p.fail(err)
	}

	result, err := p.svc.MakeMove(cmd.GameID, from, to)
	if err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildMoveResponse(cmd.GameID, g, result),
	}
}

// handlePromote completes a pending promotion with the chosen piece
func (p *Processor) handlePromote(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PromotionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}
	if resp := p.humanTurn(g); resp != nil {
		return *resp
	}

	sq, pending := g.PendingPromotion()
	if !pending {
		return p.fail(rules.ErrNoPromotionPending)
	}

	var kind board.Kind
	if piece := strings.TrimSpace(args.Piece); len(piece) == 1 {
		kind = board.KindFromLetter(piece[0])
	}

	result, err := p.svc.Promote(cmd.GameID, sq, kind)
	if err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildMoveResponse(cmd.GameID, g, result),
	}
}

// handleLegalMoves lists where the piece on a square may legally go
func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	name, _ := cmd.Args.(string)

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	from, err := board.ParseSquare(strings.TrimSpace(name))
	if err != nil {
		return p.fail(err)
	}

	destinations, err := g.LegalDestinations(from)
	if err != nil {
		return p.fail(err)
	}

	resp := core.LegalMovesResponse{
		Square:       from.String(),
		Destinations: make([]string, 0, len(destinations)),
	}
	for _, sq := range destinations {
		resp.Destinations = append(resp.Destinations, sq.String())
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleUndoMove reverts game state
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot undo while computer move is in progress", core.ErrInvalidRequest)
	}

	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if err = p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleRestart puts the game back to its initial position
func (p *Processor) handleRestart(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot restart while computer move is in progress", core.ErrInvalidRequest)
	}

	if err = p.svc.Restart(cmd.GameID); err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleQuit terminates the game; it stays readable until deleted
func (p *Processor) handleQuit(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	if err = p.svc.Terminate(cmd.GameID); err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// handleBotMove starts an asynchronous computer move for the side to move
func (p *Processor) handleBotMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	switch state := g.State(); {
	case state == core.StatePending:
		return p.errorResponse("computer move already in progress", core.ErrInvalidRequest)
	case state.IsOver():
		return p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	}
	if g.NextPlayer().Type != core.PlayerComputer {
		return p.errorResponse("not computer player's turn", core.ErrNotHumanTurn)
	}

	if err = p.svc.UpdateGameState(cmd.GameID, core.StatePending); err != nil {
		return p.fail(err)
	}
	if err = p.triggerBotMove(cmd.GameID, g); err != nil {
		p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)
		return p.errorResponse(fmt.Sprintf("failed to queue computer move: %v", err), core.ErrInternalError)
	}

	response := p.buildGameResponse(cmd.GameID, g)
	response.LastMove = &core.MoveInfo{
		PlayerColor: g.NextTurnColor().String(),
	}

	return ProcessorResponse{
		Success: true,
		Pending: true,
		Data:    response,
	}
}

// handleDeleteGame removes a game
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	// Only block deletion if actively computing
	if g.State() == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrInvalidRequest)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns the board snapshot
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.fail(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			FEN:   g.CurrentFEN(),
			Board: g.ToASCII(),
			Rows:  g.BoardSnapshot(),
		},
	}
}

// triggerBotMove queues the bot and applies its choice through the service.
// A choice made stale by a concurrent change is rejected by the game and logged.
func (p *Processor) triggerBotMove(gameID string, g *game.Game) error {
	return p.queue.SubmitAsync(gameID, g, func(result BotResult) {
		current, err := p.svc.GetGame(gameID)
		if err != nil || current != g {
			return // Game was deleted
		}

		// Only process if still in pending state
		if current.State() != core.StatePending {
			return
		}

		if result.Error != nil || !result.Found {
			p.log.Warn().Str("game", gameID).AnErr("error", result.Error).Bool("found", result.Found).Msg("computer move failed")
			p.svc.UpdateGameState(gameID, core.StateOngoing)
			return
		}

		moved, err := p.svc.MakeMove(gameID, result.Move.From, result.Move.To)
		if err == nil && moved.Outcome == game.OutcomePromotionPending {
			_, err = p.svc.Promote(gameID, result.Move.To, result.Promotion)
		}
		if err != nil {
			p.log.Warn().Str("game", gameID).Str("move", result.Move.String()).Err(err).Msg("computer move rejected")
			p.svc.UpdateGameState(gameID, core.StateOngoing)
		}
	})
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID: gameID,
		FEN:    g.CurrentFEN(),
		Turn:   g.NextTurnColor().String(),
		State:  g.State().String(),
		Check:  g.InCheck(),
		Moves:  g.Moves(),
		Players: core.PlayersResponse{
			White: g.GetPlayer(core.ColorWhite),
			Black: g.GetPlayer(core.ColorBlack),
		},
	}
	if sq, ok := g.PendingPromotion(); ok {
		resp.PromotionPending = sq.String()
	}
	if result := g.LastResult(); result != nil {
		resp.LastMove = moveInfo(result)
	}

	return resp
}

func (p *Processor) buildMoveResponse(gameID string, g *game.Game, result *game.MoveResult) core.GameResponse {
	resp := p.buildGameResponse(gameID, g)
	resp.LastMove = moveInfo(result)
	return resp
}

func moveInfo(result *game.MoveResult) *core.MoveInfo {
	info := &core.MoveInfo{
		Move:        result.Notation(),
		PlayerColor: result.PlayerColor.String(),
		Outcome:     result.Outcome.String(),
	}
	if result.Outcome == game.OutcomeCheckmate {
		info.Winner = result.Winner.Name()
	}
	return info
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the bot workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
