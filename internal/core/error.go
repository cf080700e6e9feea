package core

// Error codes
const (
	ErrGameNotFound         = "GAME_NOT_FOUND"
	ErrInvalidSquare        = "INVALID_SQUARE"
	ErrEmptySource          = "EMPTY_SOURCE"
	ErrWrongSideToMove      = "WRONG_SIDE_TO_MOVE"
	ErrIllegalShape         = "ILLEGAL_SHAPE"
	ErrWouldExposeKing      = "WOULD_EXPOSE_KING"
	ErrPromotionRequired    = "PROMOTION_REQUIRED"
	ErrInvalidPromotionKind = "INVALID_PROMOTION_KIND"
	ErrNoPromotionPending   = "NO_PROMOTION_PENDING"
	ErrNotHumanTurn         = "NOT_HUMAN_TURN"
	ErrGameOver             = "GAME_OVER"
	ErrRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent       = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest       = "INVALID_REQUEST"
	ErrInvalidFEN           = "INVALID_FEN"
	ErrInternalError        = "INTERNAL_ERROR"
	ErrResourceLimit        = "RESOURCE_LIMIT"
)
