package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestParseCommands(t *testing.T) {
	commands, err := parseCommands("o 1 2\nf 0 0\n\nc 3 4\nr\ng")
	require.NoError(t, err)
	assert.Equal(t, []command{
		{cmd: wsOpen, x: 1, y: 2},
		{cmd: wsFlag},
		{cmd: wsNoop},
		{cmd: wsChord, x: 3, y: 4},
		{cmd: wsForfeit},
		{cmd: wsNoop},
	}, commands)

	for _, bad := range []string{"o 1", "f a 1", "x 1 1", "r 1", "o 1 2 3"} {
		_, err := parseCommands(bad)
		assert.Error(t, err, bad)
	}
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func (c wsClient) send(message string) {
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(message)))
}

func (c wsClient) readSession() GameSessionDTO {
	var dto GameSessionDTO
	require.NoError(c.t, c.conn.ReadJSON(&dto))
	return dto
}

func (c wsClient) readError() string {
	var body map[string]string
	require.NoError(c.t, c.conn.ReadJSON(&body))
	return body["error"]
}

func dialGame(t *testing.T, server *httptest.Server, game GameSessionDTO) wsClient {
	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/game/" + game.GameSessionId + "/connect?token=" + game.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return wsClient{t: t, conn: conn}
}

func TestConnectWS(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.handler)
	defer server.Close()

	game := s.newGame("rows=3&cols=3&mine_count=2")
	c := dialGame(t, server, game)

	dto := c.readSession()
	assert.Equal(t, game.GameSessionId, dto.GameSessionId)
	assert.Equal(t, mines.InProgress, dto.Status)

	c.send("f 0 0\nf 0 1")
	dto = c.readSession()
	assert.Equal(t, 2, dto.FlagCount)
	assert.Equal(t, Flagged, dto.Grid[0])
	assert.Equal(t, Flagged, dto.Grid[1])

	c.send("dig 1 1")
	assert.Contains(t, c.readError(), "unknown command")

	// a failing batch is dropped as a whole
	c.send("f 0 2\no 9 9")
	assert.Equal(t, mines.ErrOutOfBounds.Error(), c.readError())
	c.send("g")
	assert.Equal(t, 2, c.readSession().FlagCount)

	c.send("r")
	dto = c.readSession()
	assert.Equal(t, mines.Lost, dto.Status)
	assert.NotNil(t, dto.EndedAt)

	c.send("o 1 1")
	assert.Contains(t, c.readError(), "game is over")

	c.send("g")
	assert.Equal(t, mines.Lost, c.readSession().Status)
}

func TestConnectWSUnauthorized(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.handler)
	defer server.Close()

	game := s.newGame("rows=3&cols=3&mine_count=2")
	game.Token = "garbage"

	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/game/" + game.GameSessionId + "/connect?token=" + game.Token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
