package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/sustainatrend/trendboard/components/dashboard"
	"github.com/sustainatrend/trendboard/components/dashboard/commands"
)

// Executor abstracts command execution so routers can mount the API without
// knowing the concrete command types.
type Executor interface {
	Assign(ctx context.Context, req dashboard.AddTileRequest) error
	Remove(ctx context.Context, input commands.RemoveTileInput) error
	Reorder(ctx context.Context, input commands.ReorderTilesInput) error
	Refresh(ctx context.Context, input commands.RefreshTileInput) error
	Preferences(ctx context.Context, input commands.SavePreferencesInput) error
}

// CommandExecutor dispatches to individual commanders.
type CommandExecutor struct {
	AssignCommander      gocommand.Commander[dashboard.AddTileRequest]
	RemoveCommander      gocommand.Commander[commands.RemoveTileInput]
	ReorderCommander     gocommand.Commander[commands.ReorderTilesInput]
	RefreshCommander     gocommand.Commander[commands.RefreshTileInput]
	PreferencesCommander gocommand.Commander[commands.SavePreferencesInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Assign(ctx context.Context, req dashboard.AddTileRequest) error {
	if e.AssignCommander == nil {
		return errors.New("httpapi: assign commander not configured")
	}
	return e.AssignCommander.Execute(ctx, req)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveTileInput) error {
	if e.RemoveCommander == nil {
		return errors.New("httpapi: remove commander not configured")
	}
	return e.RemoveCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderTilesInput) error {
	if e.ReorderCommander == nil {
		return errors.New("httpapi: reorder commander not configured")
	}
	return e.ReorderCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshTileInput) error {
	if e.RefreshCommander == nil {
		return errors.New("httpapi: refresh commander not configured")
	}
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SavePreferencesInput) error {
	if e.PreferencesCommander == nil {
		return errors.New("httpapi: preferences commander not configured")
	}
	return e.PreferencesCommander.Execute(ctx, input)
}
