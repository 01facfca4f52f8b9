package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"chessbot/game"
	"chessbot/meta"
	"chessbot/searcher"
	"chessbot/speech"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Option func(c *Console)

// WithAnnouncer reads the top move aloud on our turns.
func WithAnnouncer(announcer speech.Announcer) Option {
	return func(c *Console) {
		if announcer != nil {
			c.announcer = announcer
		}
	}
}

func WithTopN(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.topN = n
		}
	}
}

// Console is the interactive advisor: on our turns it shows the best ranked
// moves and plays the one the user picks, on the opponent's turns it records
// the move the user enters.
type Console struct {
	ranker    *searcher.Ranker
	myColor   game.Color
	topN      int
	announcer speech.Announcer
	in        *bufio.Scanner
	out       io.Writer
}

func NewConsole(ranker *searcher.Ranker, myColor game.Color, in io.Reader, out io.Writer, options ...Option) *Console {
	c := &Console{ // Default values
		ranker:    ranker,
		myColor:   myColor,
		topN:      meta.TOP_N,
		announcer: speech.Nop,
		in:        bufio.NewScanner(in),
		out:       out,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Play runs the session on board until the game ends. It returns io.EOF when
// the input runs out first.
func (c *Console) Play(ctx context.Context, board *game.Board) (game.Outcome, error) {
	for !board.IsGameOver() {
		var err error
		if board.Turn() == c.myColor {
			err = c.ourTurn(ctx, board)
		} else {
			err = c.theirTurn(board)
		}
		if err != nil {
			return game.Outcome{}, err
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Current board:")
		fmt.Fprintln(c.out, board.Draw())
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, strings.Repeat("-", 50))
		fmt.Fprintln(c.out)
	}

	outcome, _ := board.Outcome()
	switch outcome.Winner {
	case game.White:
		fmt.Fprintln(c.out, "Game has ended with the white side as winner.")
	case game.Black:
		fmt.Fprintln(c.out, "Game has ended with the black side as winner.")
	default:
		fmt.Fprintln(c.out, "Game has ended with a draw.")
	}
	fmt.Fprintf(c.out, "Reason: %s\n", outcome.Termination)
	return outcome, nil
}

func (c *Console) ourTurn(ctx context.Context, board *game.Board) error {
	start := time.Now()
	ranking, err := c.ranker.Rank(ctx, board, c.topN)
	if errors.Is(err, searcher.ErrNoSafeCandidate) {
		fmt.Fprintln(c.out, "No safe move found, ranking every legal move.")
		ranking, err = c.ranker.RankCandidates(ctx, board, board.LegalMoves(), c.topN)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Best %d moves (%.2f seconds):\n", len(ranking.Moves), time.Since(start).Seconds())
	fmt.Fprintln(c.out)
	for i, scored := range ranking.Moves {
		fmt.Fprintf(c.out, "%d\t%s\t\tConfidence: %.2f\n", i, describe(board, scored.Move), scored.Confidence)
	}
	if ranking.Partial {
		fmt.Fprintln(c.out, "(search budget ran out, ranking is partial)")
	}
	if err := c.announcer.Announce(ctx, describe(board, ranking.Moves[0].Move)); err != nil {
		log.Warn().Err(err).Msg("failed to announce move")
	}
	fmt.Fprintln(c.out)

	for {
		fmt.Fprintf(c.out, "To accept, input 0-%d. Alternatively, input a manual move (e.g. \"a1-b2\").\n", len(ranking.Moves)-1)
		line, err := c.readLine()
		if err != nil {
			return err
		}
		if line == "" {
			line = "0"
		}
		if index, err := strconv.Atoi(line); err == nil {
			if index < 0 || index >= len(ranking.Moves) {
				fmt.Fprintln(c.out, "Input not parsed successfully. Try again.")
				continue
			}
			return board.Play(ranking.Moves[index].Move)
		}
		if c.tryManual(board, line) {
			return nil
		}
	}
}

func (c *Console) theirTurn(board *game.Board) error {
	for {
		fmt.Fprintln(c.out, "Input enemy's move.")
		line, err := c.readLine()
		if err != nil {
			return err
		}
		if c.tryManual(board, line) {
			return nil
		}
	}
}

// tryManual plays a move typed as "a1-b2" when it is legal, reporting why not
// otherwise.
func (c *Console) tryManual(board *game.Board, line string) bool {
	move, err := ParseMove(line)
	if err != nil {
		fmt.Fprintln(c.out, "Input not parsed successfully. Try again.")
		return false
	}
	if move.Promotion == game.NoPieceType && isPromotion(board, move) {
		move.Promotion = game.Queen
	}
	legal := board.LegalMoves()
	if slices.Index(legal, move) < 0 {
		fmt.Fprintln(c.out, "Move illegal. Try again.")
		return false
	}
	if err := board.Play(move); err != nil {
		fmt.Fprintln(c.out, "Move illegal. Try again.")
		return false
	}
	return true
}

func (c *Console) readLine() (string, error) {
	fmt.Fprint(c.out, ">>> ")
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// ParseMove reads "a1-b2", optionally followed by a promotion letter as in
// "a7-a8n".
func ParseMove(s string) (game.Move, error) {
	if len(s) != 5 && len(s) != 6 || s[2] != '-' {
		return game.Move{}, fmt.Errorf("move %q: want the form a1-b2", s)
	}
	from, err := game.ParseSquare(s[:2])
	if err != nil {
		return game.Move{}, err
	}
	to, err := game.ParseSquare(s[3:5])
	if err != nil {
		return game.Move{}, err
	}
	move := game.Move{From: from, To: to}
	if len(s) == 6 {
		promotion, ok := game.PromotionFromLetter(s[5])
		if !ok {
			return game.Move{}, fmt.Errorf("move %q: unknown promotion %q", s, s[5])
		}
		move.Promotion = promotion
	}
	return move, nil
}

func isPromotion(board *game.Board, move game.Move) bool {
	return board.PieceAt(move.From).Type == game.Pawn && (move.To.Rank() == 0 || move.To.Rank() == 7)
}

// describe renders a move the way it is shown and spoken, e.g.
// "Move knight from g1 to f3".
func describe(pos game.Position, move game.Move) string {
	return fmt.Sprintf("Move %s from %s to %s", pos.PieceAt(move.From).Type.Name(), move.From, move.To)
}
