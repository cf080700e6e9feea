package display

import (
	"fmt"
	"io"
	"strings"

	"chessrules/internal/core"
)

const files = "abcdefgh"

// Renderer draws boards and game messages to a terminal
type Renderer struct {
	w     io.Writer
	color bool
}

func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// Board renders eight rank strings, rank 8 first, as produced by a board snapshot.
// Squares named in highlight are marked: '*' when empty, green when occupied.
func (r *Renderer) Board(rows []string, highlight []string) {
	marked := make(map[string]bool, len(highlight))
	for _, sq := range highlight {
		marked[sq] = true
	}

	r.fileLine()
	for i, row := range rows {
		rank := fmt.Sprintf("%d", 8-i)
		var line strings.Builder
		line.WriteString(paint(r.color, Cyan, rank))
		line.WriteByte(' ')
		for col := 0; col < len(row) && col < 8; col++ {
			ch := row[col]
			name := string(files[col]) + rank
			switch {
			case marked[name] && ch == '.':
				line.WriteString(paint(r.color, Green, "*"))
			case marked[name]:
				line.WriteString(paint(r.color, Green, string(ch)))
			case ch >= 'A' && ch <= 'Z':
				line.WriteString(paint(r.color, Blue, string(ch)))
			case ch >= 'a' && ch <= 'z':
				line.WriteString(paint(r.color, Red, string(ch)))
			default:
				line.WriteByte(ch)
			}
			line.WriteByte(' ')
		}
		line.WriteString(paint(r.color, Cyan, rank))
		fmt.Fprintln(r.w, line.String())
	}
	r.fileLine()
}

func (r *Renderer) fileLine() {
	letters := strings.Join(strings.Split(files, ""), " ")
	fmt.Fprintln(r.w, "  "+paint(r.color, Cyan, letters))
}

// TurnLabel returns colored turn indicator
func (r *Renderer) TurnLabel(turn core.Color) string {
	if turn == core.ColorWhite {
		return paint(r.color, Blue, "White")
	}
	return paint(r.color, Red, "Black")
}

// Prompt returns a colored prompt string
func (r *Renderer) Prompt(text string) string {
	return paint(r.color, Yellow, text+" > ")
}
