package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r" // =)
)

type command struct {
	cmd  wsCommand
	x, y int
}

func parseXY(args []string) (x int, y int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("expected 2 arguments, got %d", len(args))
		return
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

func parseCommand(line string) (command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return command{cmd: wsNoop}, nil
	}
	c := command{cmd: wsCommand(tokens[0])}
	args := tokens[1:]
	switch c.cmd {
	case wsNoop, wsForfeit:
		if len(args) != 0 {
			return c, fmt.Errorf("command %q takes no arguments", c.cmd)
		}
	case wsOpen, wsFlag, wsChord:
		x, y, err := parseXY(args)
		if err != nil {
			return c, fmt.Errorf("command %q: %w", c.cmd, err)
		}
		c.x, c.y = x, y
	default:
		return c, fmt.Errorf("unknown command %q", c.cmd)
	}
	return c, nil
}

// parseCommands splits a message into one command per line.
func parseCommands(message string) ([]command, error) {
	var commands []command
	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		c, err := parseCommand(line)
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, nil
}

func (c command) apply(game *mines.Session) error {
	switch c.cmd {
	case wsOpen:
		return Open.apply(game, c.x, c.y)
	case wsFlag:
		return Flag.apply(game, c.x, c.y)
	case wsChord:
		return Chord.apply(game, c.x, c.y)
	case wsForfeit:
		return game.Forfeit()
	}
	return nil
}

// play runs a batch of commands as one update. The batch stops early once
// the game ends.
func play(commands []command) func(*mines.Session) error {
	return func(game *mines.Session) error {
		for _, c := range commands {
			if game.Status().Terminal() && c.cmd == wsNoop {
				continue
			}
			if err := c.apply(game); err != nil {
				return err
			}
			if game.Status().Terminal() {
				break
			}
		}
		return nil
	}
}

func (g GameHandler) writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func (g GameHandler) wsRunGameLoop(
	r *http.Request, conn *websocket.Conn,
	session *repository.GameSession, game *mines.Session,
) error {
	if err := g.writeJSON(conn, NewGameSessionDTO(session, game)); err != nil {
		return fmt.Errorf("unable to write json: %w", err)
	}

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}

		commands, err := parseCommands(string(buf))
		if err != nil {
			if err := g.writeJSON(conn, wrapError(err)); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
			continue
		}

		session, game, err = g.repo.Play(r.Context(), session.GameSessionId, play(commands))
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err != nil {
			if errors.Is(err, mines.ErrInvalidMove) || errors.Is(err, mines.ErrOutOfBounds) {
				err = g.writeJSON(conn, wrapError(err))
			} else {
				g.logger.Error("unable to play ws commands", slog.Any("error", err))
				err = g.writeJSON(conn, wrapError(errors.New("internal error")))
			}
			if err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
			continue
		}

		if err := g.writeJSON(conn, NewGameSessionDTO(session, game)); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, ok := g.authorize(w, r)
	if !ok {
		return
	}

	session, game, err := g.repo.FetchGame(r.Context(), id)
	if err != nil {
		g.sendError(w, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(g.ws.ReadLimit)

	g.logger.Debug("established WS connection", slog.String("id", id.String()))

	err = g.wsRunGameLoop(r, conn, session, game)
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return
	}
	g.logger.Warn("error in ws loop", slog.Any("error", err))
}
