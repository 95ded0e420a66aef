// Package app implements the application layer for memo.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/capture"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// App wires the splitter, capture controller, cache store, and renderer into
// the evaluation entry point. One App owns one evaluation session: the
// environment and the memoized hash table persist across Evaluate calls.
type App struct {
	loader     ports.ConfigLoader
	splitter   ports.Splitter
	controller *capture.Controller
	store      ports.CacheStore
	logger     ports.Logger
	renderer   ports.Renderer

	once    sync.Once
	session *capture.Session
	initErr error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	splitter ports.Splitter,
	controller *capture.Controller,
	store ports.CacheStore,
	logger ports.Logger,
	renderer ports.Renderer,
) *App {
	return &App{
		loader:     loader,
		splitter:   splitter,
		controller: controller,
		store:      store,
		logger:     logger,
		renderer:   renderer,
	}
}

// ensureSession lazily creates the evaluation session on first use.
func (a *App) ensureSession() (*capture.Session, error) {
	a.once.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			a.initErr = zerr.Wrap(err, "failed to determine working directory")
			return
		}
		opts, err := a.loader.Load(cwd)
		if err != nil {
			a.initErr = zerr.Wrap(err, "failed to load configuration")
			return
		}
		a.session = capture.NewSession(lang.NewEnv(nil), a.store, opts)
	})
	return a.session, a.initErr
}

// Evaluate parses source and evaluates its statements strictly in order
// against the session environment, returning one record per statement.
func (a *App) Evaluate(ctx context.Context, source string) ([]domain.EvaluationRecord, error) {
	session, err := a.ensureSession()
	if err != nil {
		return nil, err
	}

	exprs, err := a.splitter.Split(source)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to split source")
	}
	if len(exprs) == 0 {
		return nil, nil
	}

	a.logger.Debug("evaluating batch", "expressions", len(exprs))
	return a.controller.Run(ctx, exprs, session)
}

// EvaluateFile reads and evaluates a script file.
func (a *App) EvaluateFile(ctx context.Context, path string) ([]domain.EvaluationRecord, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read script"), "path", path)
	}
	return a.Evaluate(ctx, string(source))
}

// Options returns the session's active configuration.
func (a *App) Options() (domain.Options, error) {
	session, err := a.ensureSession()
	if err != nil {
		return domain.Options{}, err
	}
	return session.Opts, nil
}

// CacheInfo reports the state of the active cache store.
func (a *App) CacheInfo() (ports.StoreInfo, error) {
	return a.store.Info()
}

// ClearCache removes every entry from the active cache store.
func (a *App) ClearCache() error {
	return a.store.Clear()
}

// Close ends the evaluation session, flushing the telemetry stream.
func (a *App) Close() error {
	return a.controller.Close()
}

// RenderGraphics writes every recorded graphics artifact under dir, numbered
// in record order, and returns the written paths.
func (a *App) RenderGraphics(records []domain.EvaluationRecord, dir string) ([]string, error) {
	var paths []string
	for i, rec := range records {
		if rec.Graphics == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("plot-%03d.%s", i+1, rec.Graphics.Format))
		if err := a.renderer.Render(*rec.Graphics, path); err != nil {
			return paths, zerr.Wrap(err, "failed to render graphics artifact")
		}
		a.logger.Info("graphics artifact written", "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
