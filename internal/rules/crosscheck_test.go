package rules

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"chessrules/internal/board"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// Positions with every special move in reach: castling both ways, en
// passant, promotions with and without capture, pins and checks.
var referenceFENs = []string{
	board.StartingFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	"4k3/8/8/r2pP2K/8/8/8/8 w - d6 0 1",
	"r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1",
}

// moveSet reduces moves to sorted unique from-to strings; the four
// promotion choices of one pawn move collapse into one entry.
func moveSet(moves []string) []string {
	seen := make(map[string]bool, len(moves))
	out := []string{}
	for _, m := range moves {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

func ourMoves(p *board.Position) []string {
	var out []string
	for _, m := range LegalMoves(p) {
		out = append(out, m.String())
	}
	return moveSet(out)
}

func notnilMoves(g *chess.Game) []string {
	var out []string
	for _, m := range g.ValidMoves() {
		out = append(out, m.S1().String()+m.S2().String())
	}
	return moveSet(out)
}

func dragonSquare(idx uint8) string {
	return string([]byte{'a' + idx%8, '1' + idx/8})
}

func dragonMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, dragonSquare(m.From())+dragonSquare(m.To()))
	}
	return moveSet(out)
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	for _, fen := range referenceFENs {
		p := mustFEN(t, fen)
		if diff := cmp.Diff(dragonMoves(fen), ourMoves(p)); diff != "" {
			t.Errorf("%s: legal moves differ (-dragontooth +ours):\n%s", fen, diff)
		}
	}
}

func TestLegalMovesMatchNotnil(t *testing.T) {
	for _, fen := range referenceFENs {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("chess.FEN(%q): %v", fen, err)
		}
		ref := chess.NewGame(opt)
		p := mustFEN(t, fen)
		if diff := cmp.Diff(notnilMoves(ref), ourMoves(p)); diff != "" {
			t.Errorf("%s: legal moves differ (-notnil +ours):\n%s", fen, diff)
		}
	}
}

// TestRandomPlayouts plays seeded random games, checking after every ply that
// the legal move set, the piece placement and the final result agree with
// both reference generators.
func TestRandomPlayouts(t *testing.T) {
	if testing.Short() {
		t.Skip("random playouts in short mode")
	}

	for seed := int64(1); seed <= 16; seed++ {
		rng := rand.New(rand.NewSource(seed))
		ref := chess.NewGame()
		p := board.NewPosition()

		for ply := 0; ply < 200 && ref.Outcome() == chess.NoOutcome; ply++ {
			fen := p.FEN()
			ours := ourMoves(p)
			if diff := cmp.Diff(notnilMoves(ref), ours); diff != "" {
				t.Fatalf("seed %d ply %d %s: (-notnil +ours):\n%s", seed, ply, fen, diff)
			}
			if diff := cmp.Diff(dragonMoves(fen), ours); diff != "" {
				t.Fatalf("seed %d ply %d %s: (-dragontooth +ours):\n%s", seed, ply, fen, diff)
			}

			pick := ours[rng.Intn(len(ours))]
			from, to := sq(pick[:2]), sq(pick[2:])

			effect, err := TryApply(p, from, to)
			if err != nil {
				t.Fatalf("seed %d ply %d: %s rejected: %v", seed, ply, pick, err)
			}
			if effect == EffectPromotionPending {
				if err := Promote(p, board.Move{From: from, To: to}, board.Queen); err != nil {
					t.Fatalf("seed %d ply %d: promote %s: %v", seed, ply, pick, err)
				}
			}
			if err := applyNotnil(ref, pick); err != nil {
				t.Fatalf("seed %d ply %d: notnil %s: %v", seed, ply, pick, err)
			}

			want := strings.Fields(ref.Position().String())[0]
			got := strings.Fields(p.FEN())[0]
			if got != want {
				t.Fatalf("seed %d ply %d after %s: placement %s, want %s", seed, ply, pick, got, want)
			}
		}

		side := p.Turn
		switch ref.Method() {
		case chess.Checkmate:
			if !InCheck(p, side) || HasAnyLegalMove(p, side) {
				t.Errorf("seed %d: reference says checkmate, ours disagrees at %s", seed, p.FEN())
			}
		case chess.Stalemate:
			if InCheck(p, side) || HasAnyLegalMove(p, side) {
				t.Errorf("seed %d: reference says stalemate, ours disagrees at %s", seed, p.FEN())
			}
		}
	}
}

// applyNotnil plays a from-to move on the reference game, promoting to a queen
func applyNotnil(g *chess.Game, move string) error {
	for _, m := range g.ValidMoves() {
		if m.S1().String()+m.S2().String() != move {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != chess.Queen {
			continue
		}
		return g.Move(m)
	}
	return fmt.Errorf("no reference move %s", move)
}
