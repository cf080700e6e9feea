// Package api is a Go client for the game server's REST API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// Error is a rejection reported by the server
type Error struct {
	Status   int
	Response core.ErrorResponse
}

func (e *Error) Error() string {
	if e.Response.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Response.Error, e.Response.Code, e.Response.Details)
	}
	return fmt.Sprintf("%s (%s)", e.Response.Error, e.Response.Code)
}

// Code returns the server's error code
func (e *Error) Code() string {
	return e.Response.Code
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Trace, when set, receives one line per request and response
	Trace io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second, // above the server's long-poll wait
		},
	}
}

func (c *Client) trace(color, format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, "%s%s%s\n", color, fmt.Sprintf(format, args...), display.Reset)
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
		c.trace(display.Blue, "[API] %s %s %s", method, path, data)
	} else {
		c.trace(display.Blue, "[API] %s %s", method, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.trace(display.Red, "[ERROR] %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		c.trace(display.Red, "[%d %s] %s", resp.StatusCode, http.StatusText(resp.StatusCode), respBody)
		apiErr := &Error{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Response); err != nil {
			apiErr.Response = core.ErrorResponse{Error: strings.TrimSpace(string(respBody)), Code: core.ErrInternalError}
		}
		return apiErr
	}
	c.trace(display.Green, "[%d %s]", resp.StatusCode, http.StatusText(resp.StatusCode))

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func gamePath(gameID string, parts ...string) string {
	return "/api/v1/games/" + url.PathEscape(gameID) + strings.Join(parts, "")
}

// Health returns the raw health document
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}

func (c *Client) CreateGame(ctx context.Context, req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/games", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ConfigurePlayers(ctx context.Context, gameID string, req core.ConfigurePlayersRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPut, gamePath(gameID, "/players"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetGame(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodGet, gamePath(gameID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitForChange long-polls until the game's move count differs from moveCount
// or the server's wait expires
func (c *Client) WaitForChange(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := gamePath(gameID, fmt.Sprintf("?wait=true&moveCount=%d", moveCount))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.doRequest(ctx, http.MethodDelete, gamePath(gameID), nil, nil)
}

func (c *Client) MakeMove(ctx context.Context, gameID, from, to string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/moves"), core.MoveRequest{From: from, To: to}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LegalMoves(ctx context.Context, gameID, square string) ([]string, error) {
	var resp core.LegalMovesResponse
	if err := c.doRequest(ctx, http.MethodGet, gamePath(gameID, "/moves/", url.PathEscape(square)), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Destinations, nil
}

func (c *Client) Promote(ctx context.Context, gameID, piece string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/promotion"), core.PromotionRequest{Piece: piece}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UndoMoves(ctx context.Context, gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/undo"), core.UndoRequest{Count: count}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Restart(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/restart"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Quit(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/quit"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BotMove asks the server to move for the computer player; the move lands asynchronously
func (c *Client) BotMove(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(ctx, http.MethodPost, gamePath(gameID, "/bot"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBoard(ctx context.Context, gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	if err := c.doRequest(ctx, http.MethodGet, gamePath(gameID, "/board"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
