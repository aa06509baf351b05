package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/reveal"
	"github.com/xonecas/livemark/internal/store"
	"github.com/xonecas/livemark/internal/tui"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: livemark <file.md>")
		os.Exit(2)
	}

	setupLogging()

	path, err := filepath.Abs(os.Args[1])
	if err != nil {
		fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fatal(err)
	}

	// View state persists across runs; losing it is not fatal.
	var states *store.Store
	if dataDir, err := config.EnsureDataDir(); err == nil {
		states, err = store.Open(filepath.Join(dataDir, "state.db"))
		if err != nil {
			log.Warn().Err(err).Msg("view state store unavailable")
		}
	}
	defer states.Close()

	// The program pointer exists before Run; the expiry callback only
	// fires from timers armed by selection changes, after Run started.
	var p *tea.Program
	engine := reveal.New(reveal.TimerScheduler{}, func() {
		if p != nil {
			p.Send(tui.RevealExpiredMsg{})
		}
	})
	defer engine.Close()

	p = tea.NewProgram(
		tui.New(path, string(raw), cfg, engine, states),
		tea.WithFilter(tui.MouseEventFilter),
	)
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func setupLogging() {
	log.Logger = zerolog.New(io.Discard)
	if path := os.Getenv("LIVEMARK_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			log.Logger = zerolog.New(f).With().Timestamp().Logger()
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "livemark: %v\n", err)
	os.Exit(1)
}
