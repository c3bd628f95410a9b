package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const defaultParams = "9:9:10"

func main() {
	var seed string
	flag.StringVar(&seed, "params", defaultParams, "board as rows:cols:mines")
	flag.Parse()

	// the alt screen owns stderr, keep engine debug output out of it
	mines.Log = slog.New(slog.NewTextHandler(io.Discard, nil))

	params, err := mines.ParseSeed(seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	m, err := newModel(*params, mines.NewRand())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
