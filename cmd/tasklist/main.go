package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/update"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return 1
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return 1
	}
	defer closer.Close()
	logger.Info("starting", "store", cfg.TasksFile, "backend", cfg.Backend, "config", cfg.ConfigFile)

	repo, err := storage.Open(cfg.Backend, cfg.TasksFile)
	if err != nil {
		logger.Error("open store", "err", err)
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return 1
	}
	defer repo.Close()

	app := update.NewModel(update.Options{
		Repo:          repo,
		Logger:        logger,
		ExportFile:    cfg.ExportFile,
		ExportFormat:  cfg.ExportFormat,
		DueSoonDays:   cfg.DueSoonDays,
		ShowCompleted: cfg.ShowCompleted,
		DisableColors: cfg.DisableColors,
		Context:       context.Background(),
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		logger.Error("program failed", "err", err)
		fmt.Fprintf(os.Stderr, "tasklist failed: %v\n", err)
		return 1
	}
	if m, ok := final.(update.Model); ok && m.QuitErr != nil {
		fmt.Fprintf(os.Stderr, "tasklist: tasks were not saved: %v\n", m.QuitErr)
		return 1
	}
	return 0
}
