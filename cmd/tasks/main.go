package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/file"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	workspace string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "tasks",
		Short:        "Personal task tracker",
		Long:         `Keep track of personal to-do tasks stored in the current workspace.`,
		SilenceUsage: true,
	}

	home, _ := os.UserHomeDir()

	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", home, "Directory holding the .todo storage")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(
		newLoginCmd(&opts),
		newLogoutCmd(&opts),
		newWhoamiCmd(&opts),
		newAddCmd(&opts),
		newEditCmd(&opts),
		newRmCmd(&opts),
		newToggleCmd(&opts),
		newListCmd(&opts),
	)

	return cmd
}

// app is the session restored from the workspace, every command opens its own.
type app struct {
	session *service.Session
	logger  *zap.Logger
}

func openApp(ctx context.Context, opts *options) (*app, error) {
	logger := zap.NewNop()

	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "zap.NewDevelopment")
		}

		logger = l
	}

	if opts.workspace == "" {
		return nil, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "workspace is required")
	}

	blobs, err := file.NewBlobs(opts.workspace)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.NewBlobs")
	}

	adapter := persistence.NewAdapter(blobs, logger)
	store := service.NewTaskStore(logger, adapter)
	session := service.NewSession(logger, adapter, store)

	session.Restore(ctx)

	return &app{
		session: session,
		logger:  logger,
	}, nil
}

// tasks returns the store, failing when nobody is logged in.
func (a *app) tasks() (*service.TaskStore, error) {
	store, err := a.session.Tasks()
	if err != nil {
		return nil, fmt.Errorf("not logged in, run \"tasks login\" first: %w", err)
	}

	return store, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// run opens the workspace and hands it to fn.
func run(opts *options, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer a.close()

		return fn(cmd, args, a)
	}
}
