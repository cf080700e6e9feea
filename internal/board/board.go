package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

// Board is the 8x8 grid of occupants. It is a value type, so assigning a
// Board copies every cell, has-moved flags included.
type Board [8][8]Piece

func (b *Board) At(s Square) Piece {
	return b[s.Row][s.Col]
}

func (b *Board) Set(s Square, p Piece) {
	b[s.Row][s.Col] = p
}

func (b *Board) Clear(s Square) {
	b[s.Row][s.Col] = Piece{}
}

func (b *Board) IsEmpty(s Square) bool {
	return b[s.Row][s.Col].Empty()
}

// Rows returns one string per rank, rank 8 first, using piece letters and '.' for empty
func (b *Board) Rows() []string {
	rows := make([]string, 8)
	for r := 0; r < 8; r++ {
		var row [8]byte
		for c := 0; c < 8; c++ {
			row[c] = b[r][c].Letter()
		}
		rows[r] = string(row[:])
	}
	return rows
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < 8; c++ {
			sb.WriteByte(b[r][c].Letter())
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

// Position is a board together with everything needed to judge the next move
type Position struct {
	Board       Board
	Turn        core.Color
	LastMove    Move
	HasLastMove bool
	Kings       [2]Square // king-square cache, indexed by kingIndex
	Halfmove    int
	Fullmove    int
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard initial position with White to move
func NewPosition() *Position {
	p := &Position{Turn: core.ColorWhite, Fullmove: 1}
	for c := 0; c < 8; c++ {
		p.Board[0][c] = Piece{Kind: backRank[c], Color: core.ColorBlack}
		p.Board[1][c] = Piece{Kind: Pawn, Color: core.ColorBlack}
		p.Board[6][c] = Piece{Kind: Pawn, Color: core.ColorWhite}
		p.Board[7][c] = Piece{Kind: backRank[c], Color: core.ColorWhite}
	}
	p.SetKing(core.ColorWhite, Square{Row: 7, Col: 4})
	p.SetKing(core.ColorBlack, Square{Row: 0, Col: 4})
	return p
}

func kingIndex(c core.Color) int {
	if c == core.ColorBlack {
		return 1
	}
	return 0
}

// King returns the cached square of the given color's king
func (p *Position) King(c core.Color) Square {
	return p.Kings[kingIndex(c)]
}

func (p *Position) SetKing(c core.Color, s Square) {
	p.Kings[kingIndex(c)] = s
}

// Previous returns the last committed move, or nil before the first one
func (p *Position) Previous() *Move {
	if !p.HasLastMove {
		return nil
	}
	m := p.LastMove
	return &m
}

// HomeRow is the back rank row of the given color
func HomeRow(c core.Color) int {
	if c == core.ColorWhite {
		return 7
	}
	return 0
}

// PromotionRow is the row on which a pawn of the given color promotes
func PromotionRow(c core.Color) int {
	return HomeRow(core.OppositeColor(c))
}

// PawnStartRow is the row from which a pawn of the given color may double-step
func PawnStartRow(c core.Color) int {
	if c == core.ColorWhite {
		return 6
	}
	return 1
}

// PawnDirection is the row delta of a single pawn step
func PawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}
