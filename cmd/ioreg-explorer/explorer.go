package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/ioreg-explorer/internal/config"
	"github.com/muurk/ioreg-explorer/internal/device"
	"github.com/muurk/ioreg-explorer/internal/dispatch"
	"github.com/muurk/ioreg-explorer/internal/explorer/tui"
	"github.com/muurk/ioreg-explorer/internal/logging"
	"github.com/muurk/ioreg-explorer/internal/ui"
)

// logBufferSize is how many entries the logs pane keeps
const logBufferSize = 500

func runExplorer(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return errors.New("the interactive explorer needs a terminal; see 'ioreg-explorer --help' for scriptable commands")
	}

	logs := logging.NewBuffer(logBufferSize)
	if err := initExplorerLogging(logs); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDispatcher()
	logging.Info("Starting explorer",
		zap.Stringer("usbmuxd", current.addr),
		zap.String("label", current.label),
		zap.Duration("timeout", current.timeout),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := d.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("device worker: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Stop the worker once the UI is gone, even mid-operation.
		defer cancel()
		return tui.Run(gctx, d, tui.Options{
			ExportFilename: current.exportFilename,
			Logs:           logs,
		})
	})

	return g.Wait()
}

// initExplorerLogging keeps log output off the terminal while the explorer
// owns it: entries go to the logs pane and, when a level is set or
// log_to_file is enabled, to the log file in the config directory.
func initExplorerLogging(logs *logging.Buffer) error {
	level := logLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" && current.logToFile {
		level = "info"
	}

	opts := logging.Options{Buffer: logs}
	if parsed, ok := logging.ParseLevel(level); ok {
		opts.BufferLevel = parsed
	} else {
		opts.BufferLevel = zap.InfoLevel
	}

	if level != "" {
		path, err := config.GetLogPath()
		if err != nil {
			return err
		}
		opts.Level = level
		opts.OutputPaths = []string{path}
	}

	return logging.InitializeWithOptions(opts)
}

func newDispatcher() *dispatch.Dispatcher {
	services := device.NewServices(current.addr, current.label)
	return dispatch.New(services, dispatch.WithOperationTimeout(current.timeout))
}
