package board

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

type castleRight struct {
	letter byte
	color  core.Color
	rook   Square
}

var castleRights = [4]castleRight{
	{'K', core.ColorWhite, Square{Row: 7, Col: 7}},
	{'Q', core.ColorWhite, Square{Row: 7, Col: 0}},
	{'k', core.ColorBlack, Square{Row: 0, Col: 7}},
	{'q', core.ColorBlack, Square{Row: 0, Col: 0}},
}

var kingHome = map[core.Color]Square{
	core.ColorWhite: {Row: 7, Col: 4},
	core.ColorBlack: {Row: 0, Col: 4},
}

// ParseFEN builds a Position from Forsyth-Edwards notation. Castling rights
// become has-moved flags on kings and rooks, and the en passant target becomes
// the synthetic double step that produced it.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 6 parts, got %d", len(parts))
	}

	p := &Position{}

	// Parse board
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}

	kings := map[core.Color]int{}
	for r := 0; r < 8; r++ {
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			ch := ranks[r][i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", 8-r)
			}
			piece, ok := PieceFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			sq := Square{Row: r, Col: file}
			switch piece.Kind {
			case Pawn:
				if r == 0 || r == 7 {
					return nil, fmt.Errorf("invalid FEN: pawn on back rank at %s", sq)
				}
				piece.Moved = r != PawnStartRow(piece.Color)
			case King, Rook:
				piece.Moved = true
			}
			if piece.Kind == King {
				kings[piece.Color]++
				p.SetKing(piece.Color, sq)
			}
			p.Board.Set(sq, piece)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", 8-r, file)
		}
	}
	if kings[core.ColorWhite] != 1 || kings[core.ColorBlack] != 1 {
		return nil, fmt.Errorf("invalid FEN: each side needs exactly one king")
	}

	// Parse game state with validation
	switch parts[1] {
	case "w":
		p.Turn = core.ColorWhite
	case "b":
		p.Turn = core.ColorBlack
	default:
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	if err := p.applyCastling(parts[2]); err != nil {
		return nil, err
	}
	if err := p.applyEnPassant(parts[3]); err != nil {
		return nil, err
	}

	var err error
	if p.Halfmove, err = strconv.Atoi(parts[4]); err != nil || p.Halfmove < 0 {
		return nil, fmt.Errorf("invalid FEN: halfmove counter")
	}
	if p.Fullmove, err = strconv.Atoi(parts[5]); err != nil || p.Fullmove < 1 {
		return nil, fmt.Errorf("invalid FEN: fullmove counter")
	}

	return p, nil
}

func (p *Position) applyCastling(field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		var right *castleRight
		for j := range castleRights {
			if castleRights[j].letter == field[i] {
				right = &castleRights[j]
			}
		}
		if right == nil {
			return fmt.Errorf("invalid FEN: castling field %q", field)
		}
		home := kingHome[right.color]
		king := p.Board.At(home)
		rook := p.Board.At(right.rook)
		if king.Kind != King || king.Color != right.color || rook.Kind != Rook || rook.Color != right.color {
			return fmt.Errorf("invalid FEN: castling right %c without king and rook in place", right.letter)
		}
		king.Moved = false
		rook.Moved = false
		p.Board.Set(home, king)
		p.Board.Set(right.rook, rook)
	}
	return nil
}

func (p *Position) applyEnPassant(field string) error {
	if field == "-" {
		return nil
	}
	target, err := ParseSquare(field)
	if err != nil {
		return fmt.Errorf("invalid FEN: en passant square: %w", err)
	}
	// The side that just moved is the opponent of the side to move
	mover := core.OppositeColor(p.Turn)
	dir := PawnDirection(mover)
	from := Square{Row: target.Row - dir, Col: target.Col}
	to := Square{Row: target.Row + dir, Col: target.Col}
	if from.Row != PawnStartRow(mover) {
		return fmt.Errorf("invalid FEN: en passant square %s on wrong rank", field)
	}
	pawn := p.Board.At(to)
	if pawn.Kind != Pawn || pawn.Color != mover || !p.Board.IsEmpty(target) || !p.Board.IsEmpty(from) {
		return fmt.Errorf("invalid FEN: en passant square %s without a double-stepped pawn", field)
	}
	p.LastMove = Move{From: from, To: to}
	p.HasLastMove = true
	return nil
}

// FEN encodes the position in Forsyth-Edwards notation
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for c := 0; c < 8; c++ {
			piece := p.Board[r][c]
			if piece.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Turn.String())

	sb.WriteByte(' ')
	castling := ""
	for _, right := range castleRights {
		king := p.Board.At(kingHome[right.color])
		rook := p.Board.At(right.rook)
		if king.Kind == King && king.Color == right.color && !king.Moved &&
			rook.Kind == Rook && rook.Color == right.color && !rook.Moved {
			castling += string(right.letter)
		}
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	sb.WriteString(p.enPassantTarget())

	sb.WriteString(fmt.Sprintf(" %d %d", p.Halfmove, p.Fullmove))
	return sb.String()
}

func (p *Position) enPassantTarget() string {
	if !p.HasLastMove {
		return "-"
	}
	m := p.LastMove
	piece := p.Board.At(m.To)
	if piece.Kind != Pawn || m.From.Col != m.To.Col {
		return "-"
	}
	if d := m.To.Row - m.From.Row; d != 2 && d != -2 {
		return "-"
	}
	return Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.To.Col}.String()
}
