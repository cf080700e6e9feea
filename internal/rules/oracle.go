package rules

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// IsAttacked reports whether any piece of color by attacks sq. En passant and
// castling never capture on a square directly, so they are not considered.
// Pawns attack their forward diagonals whether or not sq is occupied.
func IsAttacked(b *board.Board, sq board.Square, by core.Color) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			piece := b[r][c]
			if piece.Empty() || piece.Color != by {
				continue
			}
			if attacks(b, piece, board.Square{Row: r, Col: c}, sq) {
				return true
			}
		}
	}
	return false
}

func attacks(b *board.Board, piece board.Piece, from, to board.Square) bool {
	if from == to {
		return false
	}
	switch piece.Kind {
	case board.Pawn:
		return to.Row-from.Row == board.PawnDirection(piece.Color) && abs(to.Col-from.Col) == 1
	case board.Knight:
		return knightShape(from, to)
	case board.Bishop:
		return isDiagonal(from, to) && pathClear(b, from, to)
	case board.Rook:
		return isStraight(from, to) && pathClear(b, from, to)
	case board.Queen:
		return (isDiagonal(from, to) || isStraight(from, to)) && pathClear(b, from, to)
	case board.King:
		return kingStep(from, to)
	}
	return false
}

// InCheck reports whether the king of color c is attacked, using the king-square cache
func InCheck(p *board.Position, c core.Color) bool {
	return IsAttacked(&p.Board, p.King(c), core.OppositeColor(c))
}

// HasAnyLegalMove reports whether color c has at least one move that leaves
// its own king safe. Each candidate is tried on a copy of the position.
func HasAnyLegalMove(p *board.Position, c core.Color) bool {
	last := p.Previous()
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			from := board.Square{Row: r, Col: col}
			piece := p.Board.At(from)
			if piece.Empty() || piece.Color != c {
				continue
			}
			for tr := 0; tr < 8; tr++ {
				for tc := 0; tc < 8; tc++ {
					to := board.Square{Row: tr, Col: tc}
					if IsLegalShape(&p.Board, from, to, last) && keepsKingSafe(p, from, to) {
						return true
					}
				}
			}
		}
	}
	return false
}

// LegalDestinations lists the king-safe destinations of the piece on from,
// regardless of whose turn it is.
func LegalDestinations(p *board.Position, from board.Square) []board.Square {
	if !from.Valid() || p.Board.IsEmpty(from) {
		return nil
	}
	last := p.Previous()
	var dests []board.Square
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			to := board.Square{Row: r, Col: c}
			if IsLegalShape(&p.Board, from, to, last) && keepsKingSafe(p, from, to) {
				dests = append(dests, to)
			}
		}
	}
	return dests
}

// LegalMoves lists every king-safe move of the side to move, in board order
func LegalMoves(p *board.Position) []board.Move {
	var moves []board.Move
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			from := board.Square{Row: r, Col: c}
			piece := p.Board.At(from)
			if piece.Empty() || piece.Color != p.Turn {
				continue
			}
			for _, to := range LegalDestinations(p, from) {
				moves = append(moves, board.Move{From: from, To: to})
			}
		}
	}
	return moves
}

// keepsKingSafe applies a shape-legal move to a scratch copy and tests the mover's king
func keepsKingSafe(p *board.Position, from, to board.Square) bool {
	piece := p.Board.At(from)
	if isCastle(piece, from, to) && !castlePathSafe(&p.Board, piece, from, to) {
		return false
	}
	work := *p
	relocate(&work, from, to)
	return !InCheck(&work, piece.Color)
}

// ParsePosition reads a FEN and rejects positions where the side not to move
// is already in check, since its king could be captured on the next move.
func ParsePosition(fen string) (*board.Position, error) {
	p, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if waiting := core.OppositeColor(p.Turn); InCheck(p, waiting) {
		return nil, fmt.Errorf("%w: %s king on %s", ErrOpponentInCheck, waiting.Name(), p.King(waiting))
	}
	return p, nil
}
