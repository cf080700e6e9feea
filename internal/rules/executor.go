package rules

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Effect is the consequence of an accepted move
type Effect int

const (
	// EffectMoved means the move was committed and the turn passed
	EffectMoved Effect = iota
	// EffectPromotionPending means a pawn reached its last rank; the turn has
	// not passed and Promote must be called to complete the move
	EffectPromotionPending
)

func (e Effect) String() string {
	if e == EffectPromotionPending {
		return "promotion pending"
	}
	return "moved"
}

// TryApply validates and plays from→to for the side to move. All work happens
// on a copy of the position; on rejection *p is left exactly as it was.
func TryApply(p *board.Position, from, to board.Square) (Effect, error) {
	if !from.Valid() || !to.Valid() {
		return EffectMoved, fmt.Errorf("%w: %s-%s", ErrInvalidSquare, from, to)
	}

	piece := p.Board.At(from)
	if piece.Empty() {
		return EffectMoved, fmt.Errorf("%w: %s", ErrEmptySource, from)
	}
	if piece.Color != p.Turn {
		return EffectMoved, fmt.Errorf("%w: %s is %s", ErrWrongSideToMove, from, piece.Color.Name())
	}
	if !IsLegalShape(&p.Board, from, to, p.Previous()) {
		return EffectMoved, fmt.Errorf("%w: %s %s-%s", ErrIllegalShape, piece.Kind, from, to)
	}

	if isCastle(piece, from, to) && !castlePathSafe(&p.Board, piece, from, to) {
		return EffectMoved, fmt.Errorf("%w: castling %s-%s through check", ErrWouldExposeKing, from, to)
	}

	work := *p
	relocate(&work, from, to)
	if InCheck(&work, piece.Color) {
		return EffectMoved, fmt.Errorf("%w: %s-%s", ErrWouldExposeKing, from, to)
	}

	if piece.Kind == board.Pawn && to.Row == board.PromotionRow(piece.Color) {
		*p = work
		return EffectPromotionPending, nil
	}

	commit(&work, board.Move{From: from, To: to})
	*p = work
	return EffectMoved, nil
}

// Promote replaces the pawn that completed m with a piece of the chosen kind
// and commits the move that TryApply deferred.
func Promote(p *board.Position, m board.Move, kind board.Kind) error {
	switch kind {
	case board.Queen, board.Rook, board.Bishop, board.Knight:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPromotionKind, kind)
	}

	pawn := p.Board.At(m.To)
	if pawn.Kind != board.Pawn || pawn.Color != p.Turn || m.To.Row != board.PromotionRow(pawn.Color) {
		return fmt.Errorf("%w: no %s pawn waiting on %s", ErrNoPromotionPending, p.Turn.Name(), m.To)
	}

	p.Board.Set(m.To, board.Piece{Kind: kind, Color: pawn.Color, Moved: true})
	commit(p, m)
	return nil
}

// relocate performs the board side effects of a shape-legal move: capture,
// en passant removal, castling rook transfer, has-moved flag, king cache,
// and the halfmove clock.
func relocate(p *board.Position, from, to board.Square) {
	piece := p.Board.At(from)
	captured := !p.Board.IsEmpty(to)

	p.Board.Clear(from)

	// A diagonal pawn step onto an empty square can only be en passant
	if piece.Kind == board.Pawn && from.Col != to.Col && !captured {
		p.Board.Clear(board.Square{Row: from.Row, Col: to.Col})
		captured = true
	}

	if piece.Kind == board.King && abs(to.Col-from.Col) == 2 {
		rookFrom := board.Square{Row: from.Row, Col: 7}
		rookTo := board.Square{Row: from.Row, Col: 5}
		if to.Col < from.Col {
			rookFrom.Col, rookTo.Col = 0, 3
		}
		rook := p.Board.At(rookFrom)
		rook.Moved = true
		p.Board.Clear(rookFrom)
		p.Board.Set(rookTo, rook)
	}

	piece.Moved = true
	p.Board.Set(to, piece)

	if piece.Kind == board.King {
		p.SetKing(piece.Color, to)
	}

	if piece.Kind == board.Pawn || captured {
		p.Halfmove = 0
	} else {
		p.Halfmove++
	}
}

func commit(p *board.Position, m board.Move) {
	p.LastMove = m
	p.HasLastMove = true
	if p.Turn == core.ColorBlack {
		p.Fullmove++
	}
	p.Turn = core.OppositeColor(p.Turn)
}
