package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/config"
	"github.com/DoyleJ11/simon-says-backend/internal/logging"
	"github.com/DoyleJ11/simon-says-backend/internal/tones"
	"github.com/DoyleJ11/simon-says-backend/internal/tui"
)

func main() {
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the game)")
	mute := flag.Bool("mute", false, "play without sound")
	flag.Parse()

	if err := run(*logPath, *mute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logPath string, mute bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if logPath != "" {
		if log, err = logging.New(cfg.LogLevel, cfg.LogFormat, logPath); err != nil {
			return err
		}
	}
	defer func() { _ = log.Sync() }()

	speaker := tones.NewSpeaker(log)
	if !mute {
		if err := speaker.Init(); err != nil {
			// Non-fatal, game can run without sound
			log.Warn("audio unavailable", zap.Error(err))
		}
	}
	defer speaker.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(screen, tui.Options{Timing: cfg.Timing, Sound: speaker, Logger: log})
	return app.Run(ctx)
}
