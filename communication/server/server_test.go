package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chessbot/communication"
	"chessbot/searcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// syncBuffer collects access logs written from server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newTestServer(t *testing.T, logs io.Writer) *httptest.Server {
	t.Helper()
	ranker, err := searcher.NewRanker(searcher.Config{MovesAhead: 1, Cautiousness: 2, DefenseToAttackRatio: 6}, searcher.WithSeed(1))
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(zerolog.New(logs), ranker, searcher.WithSeed(1)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url+"/rank", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeErrorCode(t *testing.T, data []byte) string {
	t.Helper()
	var payload communication.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload.Error
}

func TestRank(t *testing.T) {
	t.Run("ranks the starting position", func(t *testing.T) {
		logs := &syncBuffer{}
		srv := newTestServer(t, logs)

		resp, data := post(t, srv.URL, `{"fen":"`+startFEN+`","limit":3}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, resp.Header.Get("X-Request-ID"), 8)

		var ranked communication.RankResponse
		require.NoError(t, json.Unmarshal(data, &ranked))
		require.Len(t, ranked.Moves, 3)
		require.False(t, ranked.Partial)
		require.Equal(t, startFEN, ranked.FEN)
		for _, m := range ranked.Moves {
			require.Equal(t, 2, m.Trials)
			require.NotEmpty(t, m.Piece)
			require.Equal(t, m.From+m.To, m.UCI)
		}
		require.Eventually(t, func() bool {
			return strings.Contains(logs.String(), `"path":"/rank"`) && strings.Contains(logs.String(), `"status":200`)
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("default limit", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"`+startFEN+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ranked communication.RankResponse
		require.NoError(t, json.Unmarshal(data, &ranked))
		require.Len(t, ranked.Moves, 5)
	})

	t.Run("checkmate is a conflict", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, communication.CodeNoLegalMoves, decodeErrorCode(t, data))
	})

	t.Run("no safe candidate", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"4k2r/8/8/8/8/8/2q4P/K7 w - - 0 1"}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, communication.CodeNoSafeCandidate, decodeErrorCode(t, data))
	})

	t.Run("unsafe fallback on request", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"4k2r/8/8/8/8/8/2q4P/K7 w - - 0 1","allow_unsafe":true}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ranked communication.RankResponse
		require.NoError(t, json.Unmarshal(data, &ranked))
		require.True(t, ranked.Unsafe)
		require.Len(t, ranked.Moves, 2)
	})

	t.Run("bad fen", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"not a position"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, communication.CodeBadRequest, decodeErrorCode(t, data))
	})

	t.Run("invalid config", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, _ := post(t, srv.URL, `{"fen":"`+startFEN+`","config":{"moves_ahead":1,"cautiousness":0,"defense_to_attack_ratio":6}}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("per-request config", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"`+startFEN+`","limit":1,"config":{"moves_ahead":0,"cautiousness":4,"defense_to_attack_ratio":6}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ranked communication.RankResponse
		require.NoError(t, json.Unmarshal(data, &ranked))
		require.Equal(t, 4, ranked.Moves[0].Trials)
	})

	t.Run("oversized request config", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, data := post(t, srv.URL, `{"fen":"`+startFEN+`","config":{"moves_ahead":1,"cautiousness":4611686018427387904,"defense_to_attack_ratio":6}}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, communication.CodeBadRequest, decodeErrorCode(t, data))

		resp, _ = post(t, srv.URL, `{"fen":"`+startFEN+`","config":{"moves_ahead":100000,"cautiousness":1,"defense_to_attack_ratio":6}}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown fields and negative limits", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, _ := post(t, srv.URL, `{"fen":"`+startFEN+`","depth":3}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp, _ = post(t, srv.URL, `{"fen":"`+startFEN+`","limit":-1}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only POST", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)
		resp, err := http.Get(srv.URL + "/rank")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, io.Discard)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestLog(t *testing.T) {
	t.Run("echoes the caller's request id", func(t *testing.T) {
		logs := &syncBuffer{}
		srv := newTestServer(t, logs)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "abcd1234")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "abcd1234", resp.Header.Get("X-Request-ID"))
		require.Eventually(t, func() bool {
			return strings.Contains(logs.String(), `"rid":"abcd1234"`) && strings.Contains(logs.String(), `"path":"/healthz"`)
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		srv := newTestServer(t, io.Discard)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "too-long-to-keep")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		rid := resp.Header.Get("X-Request-ID")
		require.Len(t, rid, 8)
		require.NotEqual(t, "too-long-to-keep", rid)
	})

	t.Run("fresh ids differ", func(t *testing.T) {
		ids := newRequestIDs(1)
		require.NotEqual(t, ids.next(), ids.next())
	})
}
