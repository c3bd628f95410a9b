package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	jwt     *config.JWT
}

func newTestServer(t *testing.T) *testServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	j := config.NewJWTWithSecret([]byte("test secret"), time.Hour)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	game := NewGameHandler(logger, repository.New(mines.NewRand()), j, ws, 100)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/highscores", game.Highscores)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	mux.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	mux.HandleFunc("GET /game/{id}/connect", game.ConnectWS)

	return &testServer{
		t:       t,
		handler: middleware.Wrap(mux, middleware.Auth(logger, j)),
		jwt:     j,
	}
}

func (s *testServer) do(method, target, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) GameSessionDTO {
	t.Helper()
	var dto GameSessionDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto), w.Body.String())
	return dto
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func (s *testServer) newGame(query string) GameSessionDTO {
	w := s.do(http.MethodPost, "/game?"+query, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	dto := decodeSession(s.t, w)
	require.NotEmpty(s.t, dto.Token)
	return dto
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/game?rows=3&cols=4&mine_count=2", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	dto := decodeSession(t, w)
	assert.Equal(t, "/game/"+dto.GameSessionId, w.Header().Get("Location"))
	assert.Equal(t, 3, dto.Rows)
	assert.Equal(t, 4, dto.Cols)
	assert.Equal(t, 2, dto.MineCount)
	assert.Equal(t, mines.InProgress, dto.Status)
	assert.Nil(t, dto.EndedAt)
	require.Len(t, dto.Grid, 12)
	for _, c := range dto.Grid {
		assert.Equal(t, Unknown, c)
	}

	claims, err := s.jwt.Parse(dto.Token)
	require.NoError(t, err)
	assert.Equal(t, dto.GameSessionId, claims.GameSessionId)
}

func TestNewGameWithFirstClick(t *testing.T) {
	s := newTestServer(t)

	// one safe cell, so the first click wins
	dto := s.newGame("rows=2&cols=2&mine_count=3&x=1&y=1")
	assert.Equal(t, mines.Won, dto.Status)
	assert.NotNil(t, dto.EndedAt)
	assert.Equal(t, 3, dto.FlagCount)
	assert.Equal(t, CellState(3), dto.Grid[3])
}

func TestNewGameBadRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing params", "rows=3&cols=3"},
		{"not a number", "rows=a&cols=3&mine_count=1"},
		{"too many mines", "rows=3&cols=3&mine_count=9"},
		{"zero rows", "rows=0&cols=3&mine_count=0"},
		{"too large", "rows=20&cols=20&mine_count=10"},
		{"cell count overflows", "rows=4611686018427387905&cols=4&mine_count=0"},
		{"max int rows", "rows=9223372036854775807&cols=2&mine_count=0"},
		{"first click out of bounds", "rows=3&cols=3&mine_count=1&x=3&y=0"},
		{"half a position", "rows=3&cols=3&mine_count=1&x=1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/game?"+test.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeError(t, w))
		})
	}
}

func TestFetch(t *testing.T) {
	s := newTestServer(t)
	created := s.newGame("rows=3&cols=3&mine_count=1")

	w := s.do(http.MethodGet, "/game/"+created.GameSessionId, created.Token)
	require.Equal(t, http.StatusOK, w.Code)
	dto := decodeSession(t, w)
	assert.Equal(t, created.GameSessionId, dto.GameSessionId)
	assert.Empty(t, dto.Token)
	assert.Equal(t, created.Grid, dto.Grid)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	a := s.newGame("rows=3&cols=3&mine_count=1")
	b := s.newGame("rows=3&cols=3&mine_count=1")

	w := s.do(http.MethodGet, "/game/"+a.GameSessionId, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/game/"+a.GameSessionId, b.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/game/"+a.GameSessionId, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/game/"+a.GameSessionId+"/move?move=open&x=0&y=0", b.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/game/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := uuid.NewString()
	token, err := s.jwt.Sign(id)
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/game/"+id, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, repository.ErrNotFound.Error(), decodeError(t, w))
}

func TestMakeAMove(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame("rows=3&cols=3&mine_count=1")
	path := "/game/" + game.GameSessionId + "/move"

	w := s.do(http.MethodPost, path+"?move=flag&x=0&y=0", game.Token)
	require.Equal(t, http.StatusOK, w.Code)
	dto := decodeSession(t, w)
	assert.Equal(t, 1, dto.FlagCount)
	assert.Equal(t, Flagged, dto.Grid[0])

	// revealing a flagged cell changes nothing
	w = s.do(http.MethodPost, path+"?move=open&x=0&y=0", game.Token)
	require.Equal(t, http.StatusOK, w.Code)
	dto = decodeSession(t, w)
	assert.Equal(t, mines.InProgress, dto.Status)
	assert.Equal(t, Flagged, dto.Grid[0])

	w = s.do(http.MethodPost, path+"?move=flag&x=0&y=0", game.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeSession(t, w).FlagCount)

	w = s.do(http.MethodPost, path+"?move=open&x=1&y=1", game.Token)
	require.Equal(t, http.StatusOK, w.Code)
	dto = decodeSession(t, w)
	assert.NotEqual(t, Unknown, dto.Grid[4])

	// flagging an open cell is a conflict
	w = s.do(http.MethodPost, path+"?move=flag&x=1&y=1", game.Token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMakeAMoveBadRequest(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame("rows=3&cols=3&mine_count=1")
	path := "/game/" + game.GameSessionId + "/move"

	tests := []struct {
		name  string
		query string
	}{
		{"unknown move", "?move=dig&x=0&y=0"},
		{"missing move", "?x=0&y=0"},
		{"missing position", "?move=open"},
		{"out of bounds", "?move=open&x=0&y=3"},
		{"negative", "?move=flag&x=-1&y=0"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := s.do(http.MethodPost, path+test.query, game.Token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMoveAfterGameOver(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame("rows=2&cols=2&mine_count=3&x=0&y=0")
	require.Equal(t, mines.Won, game.Status)

	w := s.do(http.MethodPost, "/game/"+game.GameSessionId+"/move?move=open&x=1&y=1", game.Token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeError(t, w), "game is over")

	w = s.do(http.MethodPost, "/game/"+game.GameSessionId+"/forfeit", game.Token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestForfeit(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame("rows=3&cols=3&mine_count=2")

	w := s.do(http.MethodPost, "/game/"+game.GameSessionId+"/forfeit", game.Token)
	require.Equal(t, http.StatusOK, w.Code)
	dto := decodeSession(t, w)
	assert.Equal(t, mines.Lost, dto.Status)
	assert.NotNil(t, dto.EndedAt)
	assert.Nil(t, dto.Exploded)

	mineCount := 0
	for _, c := range dto.Grid {
		assert.NotEqual(t, Unknown, c)
		if c == Mine {
			mineCount++
		}
	}
	assert.Equal(t, 2, mineCount)
}

func TestHighscores(t *testing.T) {
	s := newTestServer(t)
	won := s.newGame("rows=2&cols=2&mine_count=3&x=0&y=0")
	require.Equal(t, mines.Won, won.Status)
	s.newGame("rows=3&cols=3&mine_count=1")

	w := s.do(http.MethodGet, "/game/highscores", "")
	require.Equal(t, http.StatusOK, w.Code)
	var highscores []repository.Highscore
	require.NoError(t, json.NewDecoder(w.Body).Decode(&highscores))
	require.Len(t, highscores, 1)
	assert.Equal(t, won.GameSessionId, highscores[0].GameSessionId)

	w = s.do(http.MethodGet, "/game/highscores?seed=3:3:1", "")
	require.Equal(t, http.StatusOK, w.Code)
	highscores = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&highscores))
	assert.Empty(t, highscores)

	w = s.do(http.MethodGet, "/game/highscores?seed=3:3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/game/highscores?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeGameMove(t *testing.T) {
	for _, s := range []string{"open", "Flag", "CHORD"} {
		_, err := decodeGameMove(s)
		assert.NoError(t, err, s)
	}
	_, err := decodeGameMove("dig")
	assert.ErrorIs(t, err, ErrBadMove)
	assert.True(t, strings.Contains(ErrBadMove.Error(), "'chord'"))
}
