// app.go wires configuration, logging, storage and the LLM gateway into an
// interview machine shared by the commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/screenline-dev/screenline/internal/config"
	"github.com/screenline-dev/screenline/internal/interview"
	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
	"github.com/screenline-dev/screenline/internal/store"
)

// app holds the resolved dependencies of one command invocation.
type app struct {
	dir     string
	cfg     *config.Config
	logger  *slog.Logger
	events  *log.Logger
	store   store.Store
	machine *interview.Machine
	logFile *os.File
}

// resolveDir returns the absolute project directory from --dir or the
// working directory.
func resolveDir() (string, error) {
	if projectDir != "" {
		return filepath.Abs(projectDir)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// loadConfig resolves the project directory and its effective config.
func loadConfig() (string, *config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, fmt.Errorf("loading config: %w", err)
	}
	return dir, cfg, nil
}

// openStore opens the configured record store, or an in-memory one
// with --no-store.
func openStore(dir string, cfg *config.Config) (store.Store, error) {
	if noStore {
		return store.NewMemoryStore(), nil
	}
	path := cfg.StorePath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

// openApp builds everything an interview host needs. With fileLogs set,
// diagnostics go to .screenline/screenline.log instead of stderr, for
// hosts that own the terminal.
func openApp(ctx context.Context, fileLogs bool) (*app, error) {
	dir, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var logFile *os.File
	logOut := io.Writer(os.Stderr)
	if fileLogs {
		if err := os.MkdirAll(filepath.Join(dir, log.DirName), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", log.DirName, err)
		}
		logFile, err = os.OpenFile(filepath.Join(dir, log.DirName, "screenline.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		logOut = logFile
	}
	logger := log.NewSlog(logOut, cfg.Log.Level)
	a := &app{dir: dir, cfg: cfg, logger: logger, logFile: logFile}

	a.events, err = log.NewLogger(dir)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store, err = openStore(dir, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	gw, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configuring llm: %w", err)
	}

	a.machine, err = interview.NewMachine(cfg.Interview, gw,
		interview.WithStore(a.store),
		interview.WithEvents(a.events),
		interview.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configuring interview: %w", err)
	}
	return a, nil
}

// Close releases the record store and the log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing store", "err", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
