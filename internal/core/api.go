package core

// Request types

type CreateGameRequest struct {
	White PlayerConfig `json:"white" validate:"required"`
	Black PlayerConfig `json:"black" validate:"required"`
	FEN   string       `json:"fen,omitempty" validate:"omitempty,max=100"`
}

type ConfigurePlayersRequest struct {
	White PlayerConfig `json:"white" validate:"required"`
	Black PlayerConfig `json:"black" validate:"required"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,len=2"` // algebraic square, e.g. "e2"
	To   string `json:"to" validate:"required,len=2"`
}

type PromotionRequest struct {
	Piece string `json:"piece" validate:"required,len=1"` // q, r, b or n
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID           string          `json:"gameId"`
	FEN              string          `json:"fen"`
	Turn             string          `json:"turn"`  // "w" or "b"
	State            string          `json:"state"` // "ongoing", "white wins", etc
	Check            bool            `json:"check"`
	PromotionPending string          `json:"promotionPending,omitempty"` // square awaiting a promotion choice
	Moves            []string        `json:"moves"`
	Players          PlayersResponse `json:"players"`
	LastMove         *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Outcome     string `json:"outcome,omitempty"`
	Winner      string `json:"winner,omitempty"`
}

type BoardResponse struct {
	FEN   string   `json:"fen"`
	Board string   `json:"board"` // ASCII representation
	Rows  []string `json:"rows"`  // rank 8 first, '.' for empty
}

type LegalMovesResponse struct {
	Square       string   `json:"square"`
	Destinations []string `json:"destinations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
