// Package rules implements chess move legality on top of package board:
// per-piece geometry, attack detection, and atomic move execution.
package rules

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// IsLegalShape reports whether the piece on from may reach to on this board,
// given the last committed move (nil before the first move). It does not
// consider whether the move exposes the mover's own king; for castling that
// includes the squares the king starts on and crosses. Kings are never
// captured.
func IsLegalShape(b *board.Board, from, to board.Square, last *board.Move) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	piece := b.At(from)
	if piece.Empty() {
		return false
	}
	if target := b.At(to); !target.Empty() && (target.Color == piece.Color || target.Kind == board.King) {
		return false
	}

	switch piece.Kind {
	case board.Pawn:
		return pawnShape(b, piece, from, to, last)
	case board.Knight:
		return knightShape(from, to)
	case board.Bishop:
		return isDiagonal(from, to) && pathClear(b, from, to)
	case board.Rook:
		return isStraight(from, to) && pathClear(b, from, to)
	case board.Queen:
		return (isDiagonal(from, to) || isStraight(from, to)) && pathClear(b, from, to)
	case board.King:
		return kingStep(from, to) || castleShape(b, piece, from, to)
	}
	return false
}

func pawnShape(b *board.Board, pawn board.Piece, from, to board.Square, last *board.Move) bool {
	dir := board.PawnDirection(pawn.Color)
	dr := to.Row - from.Row
	dc := abs(to.Col - from.Col)

	if dc == 0 {
		if dr == dir {
			return b.IsEmpty(to)
		}
		// Double step from the starting rank through two empty squares
		return dr == 2*dir && !pawn.Moved && from.Row == board.PawnStartRow(pawn.Color) &&
			b.IsEmpty(board.Square{Row: from.Row + dir, Col: from.Col}) && b.IsEmpty(to)
	}

	if dc != 1 || dr != dir {
		return false
	}
	if !b.IsEmpty(to) {
		// Friendly targets were filtered by the caller
		return true
	}
	return isEnPassant(b, pawn, from, to, last)
}

// isEnPassant requires the last move to be an enemy pawn's double step that
// landed beside the capturing pawn on the destination file.
func isEnPassant(b *board.Board, pawn board.Piece, from, to board.Square, last *board.Move) bool {
	if last == nil {
		return false
	}
	moved := b.At(last.To)
	if moved.Kind != board.Pawn || moved.Color == pawn.Color {
		return false
	}
	if abs(last.To.Row-last.From.Row) != 2 || last.From.Col != last.To.Col {
		return false
	}
	return last.To.Row == from.Row && last.To.Col == to.Col
}

func knightShape(from, to board.Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
}

func kingStep(from, to board.Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return dr <= 1 && dc <= 1 && (dr|dc) != 0
}

func castleShape(b *board.Board, king board.Piece, from, to board.Square) bool {
	home := board.HomeRow(king.Color)
	if king.Moved || from.Row != home || from.Col != 4 || to.Row != home {
		return false
	}

	var rookCol, step int
	switch to.Col {
	case 6:
		rookCol, step = 7, 1
	case 2:
		rookCol, step = 0, -1
	default:
		return false
	}

	rook := b[home][rookCol]
	if rook.Kind != board.Rook || rook.Color != king.Color || rook.Moved {
		return false
	}
	for c := from.Col + step; c != rookCol; c += step {
		if !b[home][c].Empty() {
			return false
		}
	}
	return true
}

func isCastle(piece board.Piece, from, to board.Square) bool {
	return piece.Kind == board.King && abs(to.Col-from.Col) == 2
}

// castlePathSafe reports whether a castling king neither starts on nor
// crosses a square attacked by the enemy. The landing square is covered by
// the ordinary check test after the move.
func castlePathSafe(b *board.Board, king board.Piece, from, to board.Square) bool {
	enemy := core.OppositeColor(king.Color)
	step := sign(to.Col - from.Col)
	for c := from.Col; c != to.Col; c += step {
		if IsAttacked(b, board.Square{Row: from.Row, Col: c}, enemy) {
			return false
		}
	}
	return true
}

func isDiagonal(from, to board.Square) bool {
	return abs(to.Row-from.Row) == abs(to.Col-from.Col)
}

func isStraight(from, to board.Square) bool {
	return from.Row == to.Row || from.Col == to.Col
}

// pathClear checks every square strictly between from and to on a rank,
// file, or diagonal.
func pathClear(b *board.Board, from, to board.Square) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	r, c := from.Row+dr, from.Col+dc
	for r != to.Row || c != to.Col {
		if !b[r][c].Empty() {
			return false
		}
		r += dr
		c += dc
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
