package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"chessrules/internal/bot"
	"chessrules/internal/core"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newApp(t *testing.T, devMode bool) *fiber.App {
	t.Helper()
	svc := service.New(nil, zerolog.Nop())
	proc := processor.New(svc, bot.NewRandom(1), 1, zerolog.Nop())
	t.Cleanup(func() { proc.Close() })
	return NewFiberApp(proc, svc, devMode)
}

// call sends a request and decodes a JSON reply into out when out is non-nil
func call(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	var g core.GameResponse
	if status := call(t, app, fiber.MethodPost, "/api/v1/games", req, &g); status != fiber.StatusCreated {
		t.Fatalf("create: status %d", status)
	}
	return g
}

var humans = core.CreateGameRequest{
	White: core.PlayerConfig{Type: core.PlayerHuman},
	Black: core.PlayerConfig{Type: core.PlayerHuman},
}

func TestHealth(t *testing.T) {
	app := newApp(t, false)

	var body map[string]any
	if status := call(t, app, fiber.MethodGet, "/health", nil, &body); status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	if body["status"] != "healthy" || body["storage"] != "disabled" {
		t.Errorf("health = %v", body)
	}
}

func TestGameFlow(t *testing.T) {
	app := newApp(t, true)
	g := createGame(t, app, humans)
	base := "/api/v1/games/" + g.GameID

	var moved core.GameResponse
	if status := call(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{From: "e2", To: "e4"}, &moved); status != fiber.StatusOK {
		t.Fatalf("move: status %d", status)
	}
	if moved.Turn != "b" || moved.LastMove == nil || moved.LastMove.Move != "e2e4" {
		t.Errorf("after e2e4: %+v", moved)
	}

	var dests core.LegalMovesResponse
	call(t, app, fiber.MethodGet, base+"/moves/e7", nil, &dests)
	if diff := cmp.Diff(core.LegalMovesResponse{Square: "e7", Destinations: []string{"e6", "e5"}}, dests); diff != "" {
		t.Errorf("e7 destinations (-want +got):\n%s", diff)
	}

	var rejected core.ErrorResponse
	if status := call(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{From: "e7", To: "e4"}, &rejected); status != fiber.StatusBadRequest {
		t.Errorf("illegal move: status %d", status)
	}
	if rejected.Code != core.ErrIllegalShape {
		t.Errorf("code = %s", rejected.Code)
	}

	var snap core.BoardResponse
	call(t, app, fiber.MethodGet, base+"/board", nil, &snap)
	if len(snap.Rows) != 8 || snap.Rows[4] != "....P..." || snap.FEN != moved.FEN {
		t.Errorf("board = %+v", snap)
	}

	var undone core.GameResponse
	if status := call(t, app, fiber.MethodPost, base+"/undo", core.UndoRequest{Count: 1}, &undone); status != fiber.StatusOK {
		t.Fatalf("undo: status %d", status)
	}
	if len(undone.Moves) != 0 || undone.Turn != "w" {
		t.Errorf("after undo: %+v", undone)
	}

	var quit core.GameResponse
	call(t, app, fiber.MethodPost, base+"/quit", nil, &quit)
	if quit.State != "terminated" {
		t.Errorf("after quit: state %s", quit.State)
	}

	var restarted core.GameResponse
	call(t, app, fiber.MethodPost, base+"/restart", nil, &restarted)
	if restarted.State != "ongoing" {
		t.Errorf("after restart: state %s", restarted.State)
	}

	if status := call(t, app, fiber.MethodDelete, base, nil, nil); status != fiber.StatusNoContent {
		t.Errorf("delete: status %d", status)
	}
	var missing core.ErrorResponse
	if status := call(t, app, fiber.MethodGet, base, nil, &missing); status != fiber.StatusNotFound || missing.Code != core.ErrGameNotFound {
		t.Errorf("get deleted: status %d code %s", status, missing.Code)
	}
}

func TestPromotionOverHTTP(t *testing.T) {
	app := newApp(t, true)
	req := humans
	req.FEN = "8/P7/8/8/8/8/8/k6K w - - 0 1"
	g := createGame(t, app, req)
	base := "/api/v1/games/" + g.GameID

	var pending core.GameResponse
	call(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{From: "a7", To: "a8"}, &pending)
	if pending.PromotionPending != "a8" || pending.Turn != "w" {
		t.Fatalf("after a7a8: %+v", pending)
	}

	var rejected core.ErrorResponse
	call(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{From: "h1", To: "g1"}, &rejected)
	if rejected.Code != core.ErrPromotionRequired {
		t.Errorf("move while pending: code %s", rejected.Code)
	}

	call(t, app, fiber.MethodPost, base+"/promotion", core.PromotionRequest{Piece: "k"}, &rejected)
	if rejected.Code != core.ErrInvalidPromotionKind {
		t.Errorf("promote to king: code %s", rejected.Code)
	}

	var done core.GameResponse
	if status := call(t, app, fiber.MethodPost, base+"/promotion", core.PromotionRequest{Piece: "q"}, &done); status != fiber.StatusOK {
		t.Fatalf("promote: status %d", status)
	}
	if done.Turn != "b" || !done.Check || done.LastMove.Move != "a7a8q" {
		t.Errorf("after promotion: %+v", done)
	}
}

func TestRequestValidation(t *testing.T) {
	app := newApp(t, true)
	g := createGame(t, app, humans)
	base := "/api/v1/games/" + g.GameID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"bad game id", fiber.MethodGet, "/api/v1/games/not-a-uuid", nil, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"unknown game", fiber.MethodGet, "/api/v1/games/" + uuid.NewString(), nil, fiber.StatusNotFound, core.ErrGameNotFound},
		{"missing to", fiber.MethodPost, base + "/moves", map[string]string{"from": "e2"}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"long square", fiber.MethodPost, base + "/moves", core.MoveRequest{From: "e2", To: "e44"}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad square", fiber.MethodPost, base + "/moves", core.MoveRequest{From: "e2", To: "i4"}, fiber.StatusBadRequest, core.ErrInvalidSquare},
		{"bad player type", fiber.MethodPost, "/api/v1/games", map[string]any{"white": map[string]int{"type": 3}, "black": map[string]int{"type": 1}}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad fen", fiber.MethodPost, "/api/v1/games", core.CreateGameRequest{White: humans.White, Black: humans.Black, FEN: "8/8/8 w - - 0 1"}, fiber.StatusBadRequest, core.ErrInvalidFEN},
		{"zero undo", fiber.MethodPost, base + "/undo", core.UndoRequest{}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"undo too far", fiber.MethodPost, base + "/undo", core.UndoRequest{Count: 3}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bot on human turn", fiber.MethodPost, base + "/bot", nil, fiber.StatusBadRequest, core.ErrNotHumanTurn},
		{"no route", fiber.MethodGet, "/api/v1/nothing", nil, fiber.StatusNotFound, core.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e core.ErrorResponse
			status := call(t, app, tt.method, tt.path, tt.body, &e)
			if status != tt.status || e.Code != tt.code {
				t.Errorf("status %d code %s (%s), want %d %s", status, e.Code, e.Error, tt.status, tt.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newApp(t, false)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", bytes.NewReader([]byte("white=1")))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Errorf("status %d, want 415", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	app := newApp(t, false)
	path := "/api/v1/games/" + uuid.NewString()

	limited := false
	for i := 0; i < rateLimitRate+5; i++ {
		if call(t, app, fiber.MethodGet, path, nil, nil) == fiber.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Errorf("no 429 after %d requests", rateLimitRate+5)
	}
}

func TestLongPoll(t *testing.T) {
	app := newApp(t, true)
	g := createGame(t, app, humans)
	base := "/api/v1/games/" + g.GameID

	// a client that is already behind returns at once
	var current core.GameResponse
	call(t, app, fiber.MethodGet, base+"?wait=true&moveCount=5", nil, &current)
	if current.GameID != g.GameID {
		t.Fatalf("immediate poll: %+v", current)
	}

	done := make(chan core.GameResponse, 1)
	go func() {
		var polled core.GameResponse
		defer func() { done <- polled }()
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, base+"?wait=true&moveCount=0", nil), -1)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		json.NewDecoder(resp.Body).Decode(&polled)
	}()

	time.Sleep(50 * time.Millisecond)
	call(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{From: "d2", To: "d4"}, nil)

	select {
	case polled := <-done:
		if diff := cmp.Diff([]string{"d2d4"}, polled.Moves); diff != "" {
			t.Errorf("polled moves (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("long poll did not return after a move")
	}
}
