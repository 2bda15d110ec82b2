package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/support/logger"
)

// Task is a started application for a one-shot command.
type Task struct {
	app *fx.App
}

// Start builds and starts an application from options. Use fx.Populate to
// extract the components the command needs.
func Start(ctx context.Context, options ...fx.Option) (*Task, error) {
	a := fx.New(options...)
	if err := a.Err(); err != nil {
		return nil, err
	}
	startCtx, cancel := context.WithTimeout(ctx, a.StartTimeout())
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return nil, err
	}
	return &Task{app: a}, nil
}

// Stop runs the OnStop hooks, closing the database and flushing spans.
func (t *Task) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), t.app.StopTimeout())
	defer cancel()
	if err := t.app.Stop(ctx); err != nil {
		logger.Warnf("Failed to stop application cleanly: %v", err)
	}
}
