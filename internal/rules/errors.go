package rules

import (
	"errors"

	"chessrules/internal/board"
)

// Rejections. None of them is fatal and none leaves the position modified.
var (
	ErrInvalidSquare        = board.ErrInvalidSquare
	ErrEmptySource          = errors.New("no piece on source square")
	ErrWrongSideToMove      = errors.New("piece does not belong to the side to move")
	ErrIllegalShape         = errors.New("piece cannot move that way")
	ErrWouldExposeKing      = errors.New("move would leave own king in check")
	ErrPromotionRequired    = errors.New("promotion choice required first")
	ErrInvalidPromotionKind = errors.New("invalid promotion piece")
	ErrNoPromotionPending   = errors.New("no promotion pending")
	ErrGameOver             = errors.New("game is over")
	ErrOpponentInCheck      = errors.New("side not to move is in check")
)
