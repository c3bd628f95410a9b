package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

var (
	errUnauthorized = errors.New("you are not allowed to play this game")
	errTooLarge     = errors.New("board is too large")
)

type GameHandler struct {
	logger   *slog.Logger
	repo     *repository.Queries
	jwt      *config.JWT
	ws       *config.WebSocket
	maxCells int
}

func NewGameHandler(
	logger *slog.Logger,
	repo *repository.Queries,
	jwt *config.JWT,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		repo:     repo,
		jwt:      jwt,
		ws:       ws,
		maxCells: maxCells,
	}
	return handler
}

// sendError maps engine and store errors onto status codes.
func (g GameHandler) sendError(w http.ResponseWriter, err error) {
	var ce *mines.ConfigError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		SendErrorOrLog(w, g.logger, http.StatusNotFound, err)
	case errors.Is(err, mines.ErrOutOfBounds), errors.As(err, &ce):
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
	case errors.Is(err, mines.ErrInvalidMove):
		SendErrorOrLog(w, g.logger, http.StatusConflict, err)
	default:
		g.logger.Error("unable to handle request", slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, errors.New("internal error"))
	}
}

// authorize resolves the {id} path value and checks the caller's token
// was issued for that session.
func (g GameHandler) authorize(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusNotFound, repository.ErrNotFound)
		return uuid.Nil, false
	}
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.GameSessionId != id.String() {
		SendErrorOrLog(w, g.logger, http.StatusUnauthorized, errUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreateNewGameDTO(query)
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	params := mines.GameParams(dto)
	if err := params.Validate(); err != nil {
		g.sendError(w, err)
		return
	}
	// Validate guarantees Cols > 0
	if g.maxCells > 0 && params.Rows > g.maxCells/params.Cols {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest,
			fmt.Errorf("%w: at most %d cells", errTooLarge, g.maxCells))
		return
	}

	game, err := mines.NewSession(params, nil)
	if err != nil {
		g.sendError(w, err)
		return
	}

	// an optional first click saves a round trip
	if query.Has("x") || query.Has("y") {
		pos, err := ParsePosition(query)
		if err != nil {
			SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		if _, err := game.Reveal(pos.X, pos.Y); err != nil {
			g.sendError(w, err)
			return
		}
	}

	session, err := g.repo.CreateGameSession(r.Context(), game)
	if err != nil {
		g.sendError(w, err)
		return
	}

	token, err := g.jwt.Sign(session.GameSessionId.String())
	if err != nil {
		g.sendError(w, fmt.Errorf("unable to sign session token: %w", err))
		return
	}

	g.logger.Debug("created game session",
		slog.String("id", session.GameSessionId.String()),
		slog.String("params", params.Seed()),
	)

	sessionDTO := NewGameSessionDTO(session, game)
	sessionDTO.Token = token
	w.Header().Set("Location", r.URL.Path+"/"+session.GameSessionId.String())
	SendJSONOrLog(w, g.logger, http.StatusCreated, sessionDTO)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, ok := g.authorize(w, r)
	if !ok {
		return
	}

	session, game, err := g.repo.FetchGame(r.Context(), id)
	if err != nil {
		g.sendError(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(session, game))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := decodeGameMove(query.Get("move"))
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	id, ok := g.authorize(w, r)
	if !ok {
		return
	}

	session, game, err := g.repo.Play(r.Context(), id, func(game *mines.Session) error {
		return move.apply(game, pos.X, pos.Y)
	})
	if err != nil {
		g.sendError(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(session, game))
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	id, ok := g.authorize(w, r)
	if !ok {
		return
	}

	session, game, err := g.repo.Play(r.Context(), id, func(game *mines.Session) error {
		return game.Forfeit()
	})
	if err != nil {
		g.sendError(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(session, game))
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseHighscoresDTO(r.URL.Query())
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.HighscoreFilter{Limit: dto.Limit}
	if dto.Seed != "" {
		params, err := mines.ParseSeed(dto.Seed)
		if err != nil {
			SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		filter.GameParams = params
	}

	highscores, err := g.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		g.sendError(w, err)
		return
	}

	SendJSONOrLog(w, g.logger, http.StatusOK, highscores)
}
