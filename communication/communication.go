package communication

import (
	"errors"
	"fmt"

	"chessbot/game"
	"chessbot/searcher"
)

// Error codes carried in ErrorResponse.
const (
	CodeNoLegalMoves     = "no_legal_moves"
	CodeNoSafeCandidate  = "no_safe_candidate"
	CodeBudgetExhausted  = "budget_exhausted"
	CodeBadRequest       = "bad_request"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal"
)

type RankRequest struct {
	FEN   string `json:"fen"`
	Limit int    `json:"limit,omitempty"` // Zero means the server default
	// AllowUnsafe ranks every legal move when no move is safe instead of
	// failing with no_safe_candidate.
	AllowUnsafe bool             `json:"allow_unsafe,omitempty"`
	Config      *searcher.Config `json:"config,omitempty"`
}

type MoveResponse struct {
	UCI        string  `json:"uci"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Promotion  string  `json:"promotion,omitempty"`
	Piece      string  `json:"piece"`
	Confidence float64 `json:"confidence"`
	Trials     int     `json:"trials"`
}

type RankResponse struct {
	FEN     string         `json:"fen"`
	Moves   []MoveResponse `json:"moves"`
	Partial bool           `json:"partial"`
	Unsafe  bool           `json:"unsafe,omitempty"` // Ranked without the safety filter
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ToMoveResponse converts a scored move on pos to its JSON form.
func ToMoveResponse(pos game.Position, scored searcher.ScoredMove) MoveResponse {
	return MoveResponse{
		UCI:        scored.Move.String(),
		From:       scored.Move.From.String(),
		To:         scored.Move.To.String(),
		Promotion:  scored.Move.Promotion.Name(),
		Piece:      pos.PieceAt(scored.Move.From).Type.Name(),
		Confidence: scored.Confidence,
		Trials:     scored.Trials,
	}
}

// APIError is a non-2xx reply from the ranking service.
type APIError struct {
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ranking service: %d %s: %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("ranking service: %d %s", e.Status, e.Code)
}

// Unwrap maps the terminal codes back to the searcher sentinels so callers can
// use errors.Is across the wire.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case CodeNoLegalMoves:
		return searcher.ErrNoLegalMoves
	case CodeNoSafeCandidate:
		return searcher.ErrNoSafeCandidate
	case CodeBudgetExhausted:
		return searcher.ErrBudgetExhausted
	}
	return nil
}

// ErrorCode maps a ranking error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, searcher.ErrNoLegalMoves):
		return CodeNoLegalMoves
	case errors.Is(err, searcher.ErrNoSafeCandidate):
		return CodeNoSafeCandidate
	case errors.Is(err, searcher.ErrBudgetExhausted):
		return CodeBudgetExhausted
	case errors.Is(err, searcher.ErrInvalidConfig):
		return CodeBadRequest
	}
	return CodeInternal
}
