package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"chessbot/communication"
	"chessbot/game"
	"chessbot/meta"
	"chessbot/searcher"

	"github.com/rs/zerolog"
)

// Server exposes a Ranker over JSON/HTTP.
type Server struct {
	ranker  *searcher.Ranker
	options []searcher.Option // Applied to rankers built for per-request configs
	topN    int
	log     zerolog.Logger
	ids     *requestIDs
}

// NewServer serves ranker. options are reused when a request carries its own
// rollout config.
func NewServer(log zerolog.Logger, ranker *searcher.Ranker, options ...searcher.Option) *Server {
	return &Server{
		ranker:  ranker,
		options: options,
		topN:    meta.TOP_N,
		log:     log,
		ids:     newRequestIDs(uint64(time.Now().UnixNano())),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.health)
	mux.HandleFunc("/rank", s.rank)
	return s.withRequestLog(accessLog(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		s.log.Info().Msgf("ranking service listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, communication.CodeMethodNotAllowed, "")
		return
	}

	var req communication.RankRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, err.Error())
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, "limit must not be negative")
		return
	}
	if req.Limit == 0 {
		req.Limit = s.topN
	}
	board, err := game.ParseFEN(req.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, err.Error())
		return
	}

	ranker := s.ranker
	if req.Config != nil {
		ranker, err = searcher.NewRanker(*req.Config, s.options...)
		if err != nil {
			writeError(w, http.StatusBadRequest, communication.CodeBadRequest, err.Error())
			return
		}
	}

	resp := communication.RankResponse{FEN: board.FEN()}
	ranking, err := ranker.Rank(r.Context(), board, req.Limit)
	if errors.Is(err, searcher.ErrNoSafeCandidate) && req.AllowUnsafe {
		resp.Unsafe = true
		ranking, err = ranker.RankCandidates(r.Context(), board, board.LegalMoves(), req.Limit)
	}
	if err != nil {
		s.writeRankError(w, r, err)
		return
	}

	resp.Partial = ranking.Partial
	resp.Moves = make([]communication.MoveResponse, 0, len(ranking.Moves))
	for _, scored := range ranking.Moves {
		resp.Moves = append(resp.Moves, communication.ToMoveResponse(board, scored))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeRankError(w http.ResponseWriter, r *http.Request, err error) {
	code := communication.ErrorCode(err)
	switch code {
	case communication.CodeNoLegalMoves, communication.CodeNoSafeCandidate:
		writeError(w, http.StatusConflict, code, "")
	case communication.CodeBudgetExhausted:
		writeError(w, http.StatusServiceUnavailable, code, err.Error())
	case communication.CodeBadRequest:
		writeError(w, http.StatusBadRequest, code, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("ranking failed")
		writeError(w, http.StatusInternalServerError, code, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, communication.ErrorResponse{Error: code, Detail: detail})
}
