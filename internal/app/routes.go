package app

import (
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.repo, a.jwt, a.ws, a.config.MaxCells,
	)

	base := strings.TrimSuffix(a.config.BasePath, "/")

	a.router.HandleFunc("POST "+base+"/game", game.NewGame)
	a.router.HandleFunc("GET "+base+"/game/highscores", game.Highscores)
	a.router.HandleFunc("GET "+base+"/game/{id}", game.Fetch)
	a.router.HandleFunc("POST "+base+"/game/{id}/move", game.MakeAMove)
	a.router.HandleFunc("POST "+base+"/game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("GET "+base+"/game/{id}/connect", game.ConnectWS)
}
