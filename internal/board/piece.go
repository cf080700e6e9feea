package board

import "chessrules/internal/core"

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

var kindLetters = [...]byte{'.', 'P', 'N', 'B', 'R', 'Q', 'K'}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Letter returns the uppercase letter of the kind
func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

// KindFromLetter maps a letter of either case to a kind, NoKind if unknown
func KindFromLetter(c byte) Kind {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == c {
			return k
		}
	}
	return NoKind
}

// Piece is the occupant of one board cell. The zero value is an empty cell.
// Moved only matters for pawns, rooks and kings.
type Piece struct {
	Kind  Kind
	Color core.Color
	Moved bool
}

func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

// Letter returns the snapshot letter: uppercase for White, lowercase for Black, '.' when empty
func (p Piece) Letter() byte {
	if p.Empty() {
		return '.'
	}
	l := p.Kind.Letter()
	if p.Color == core.ColorBlack {
		l += 'a' - 'A'
	}
	return l
}

// PieceFromLetter is the inverse of Letter for occupied cells
func PieceFromLetter(c byte) (Piece, bool) {
	k := KindFromLetter(c)
	if k == NoKind {
		return Piece{}, false
	}
	color := core.ColorWhite
	if c >= 'a' && c <= 'z' {
		color = core.ColorBlack
	}
	return Piece{Kind: k, Color: color}, true
}
