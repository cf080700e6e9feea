package http

import (
	"strconv"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // longer than the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(rateLimiter(maxReq))
	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Get("/games/:gameId/moves/:square", h.LegalMoves)
	api.Post("/games/:gameId/promotion", h.Promote)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Post("/games/:gameId/restart", h.Restart)
	api.Post("/games/:gameId/quit", h.Quit)
	api.Post("/games/:gameId/bot", h.BotMove)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrInvalidRequest
			response.Details = "no such route"
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps a processor error code to the HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadRequest
	}
}

// respond writes a processor response with the given success status
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame creates a new game with specified player types and optional FEN
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	return respond(c, resp, fiber.StatusCreated)
}

// ConfigurePlayers updates player configuration mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.ConfigurePlayersRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewConfigurePlayersCommand(id, req))
	return respond(c, resp, fiber.StatusOK)
}

// GetGame retrieves current game state, optionally long-polling until the move count changes
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	g, err := h.svc.GetGame(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// If move count already different, return immediately
	if moveCount != g.MoveCount() {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(id, moveCount, ctx)

	select {
	case <-notify:
		// State changed, timed out, or the game was deleted
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// MakeMove submits a move from one square to another
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewMakeMoveCommand(id, req))
	return respond(c, resp, fiber.StatusOK)
}

// LegalMoves lists the legal destinations of the piece on a square
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewLegalMovesCommand(id, c.Params("square")))
	return respond(c, resp, fiber.StatusOK)
}

// Promote chooses the piece for a pawn awaiting promotion
func (h *HTTPHandler) Promote(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.PromotionRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewPromoteCommand(id, req))
	return respond(c, resp, fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.UndoRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewUndoMoveCommand(id, req))
	return respond(c, resp, fiber.StatusOK)
}

// Restart resets the game to its initial position
func (h *HTTPHandler) Restart(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewRestartCommand(id)), fiber.StatusOK)
}

// Quit terminates the game
func (h *HTTPHandler) Quit(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewQuitCommand(id)), fiber.StatusOK)
}

// BotMove asks the computer player to move; the result arrives asynchronously
func (h *HTTPHandler) BotMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewBotMoveCommand(id)), fiber.StatusAccepted)
}

// DeleteGame removes a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(id)), fiber.StatusNoContent)
}

// GetBoard returns the board as ASCII and as rank strings
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(id)), fiber.StatusOK)
}
