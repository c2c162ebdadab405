package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ioreg-explorer/internal/ioreg"
	"github.com/muurk/ioreg-explorer/internal/logging"
	"github.com/muurk/ioreg-explorer/internal/usbmux"
)

// Services are the device-facing operations the worker runs. Each call opens
// and discards its own connection.
type Services interface {
	// ListDevices enumerates attached devices. Errors matching
	// usbmux.ErrUnavailable mean the daemon could not be reached.
	ListDevices(ctx context.Context) ([]usbmux.Device, error)

	// Properties runs a handshake and returns the flat property set.
	Properties(ctx context.Context, dev usbmux.Device) (map[string]interface{}, error)

	// Registry runs a diagnostics query. A nil snapshot without error means
	// the device returned no registry.
	Registry(ctx context.Context, dev usbmux.Device, filter Filter) (*ioreg.Snapshot, error)
}

// Worker executes commands one at a time.
type Worker struct {
	services Services
	commands *Queue[Command]
	results  *Queue[Result]

	// timeout bounds each operation when positive
	timeout time.Duration
}

// NewWorker creates a worker reading commands and writing results.
func NewWorker(services Services, commands *Queue[Command], results *Queue[Result]) *Worker {
	return &Worker{
		services: services,
		commands: commands,
		results:  results,
	}
}

// Run drains commands until ctx is done or the command queue is closed.
// Both queues are closed on return so either side observes the termination.
func (w *Worker) Run(ctx context.Context) error {
	defer w.results.Close()
	defer w.commands.Close()

	logging.Debug("Worker started")
	for {
		cmd, err := w.commands.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				logging.Debug("Worker stopped: command queue closed")
				return nil
			}
			logging.Debug("Worker stopped", zap.Error(err))
			return err
		}

		w.execute(ctx, cmd)
	}
}

func (w *Worker) execute(ctx context.Context, cmd Command) {
	opCtx, cancel := w.operationContext(ctx)
	defer cancel()

	start := time.Now()
	var res Result

	switch c := cmd.(type) {
	case Enumerate:
		res = w.enumerate(opCtx)
	case FetchInfo:
		res = w.fetchInfo(opCtx, c)
	case FetchRegistry:
		res = w.fetchRegistry(opCtx, c)
	default:
		panic(fmt.Sprintf("dispatch: unknown command %T", cmd))
	}

	fields := []zap.Field{
		zap.String("command", cmd.Kind()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if res == nil {
		logging.Debug("Command produced no result", fields...)
		return
	}

	logging.Debug("Command completed", append(fields, zap.String("result", res.Kind()))...)
	w.results.Send(res)
}

func (w *Worker) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout > 0 {
		return context.WithTimeout(ctx, w.timeout)
	}
	return context.WithCancel(ctx)
}

func (w *Worker) enumerate(ctx context.Context) Result {
	devices, err := w.services.ListDevices(ctx)
	if err != nil {
		if errors.Is(err, usbmux.ErrUnavailable) {
			logging.Warn("usbmuxd unavailable", zap.Error(err))
			return ServiceUnavailable{Err: err}
		}
		logging.Warn("Failed to list devices", zap.Error(err))
		return EnumerationFailed{Err: err}
	}

	roster := make(Roster, len(devices))
	for _, dev := range devices {
		values, err := w.services.Properties(ctx, dev)
		if err != nil {
			logging.Warn("Failed to read device properties",
				zap.String("udid", dev.UDID()),
				zap.Error(err),
			)
			continue
		}

		name, ok := values[DeviceNameKey].(string)
		if !ok {
			logging.Debug("Device has no name, skipping", zap.String("udid", dev.UDID()))
			continue
		}
		roster[name] = dev
	}

	logging.Info("Enumerated devices",
		zap.Int("attached", len(devices)),
		zap.Int("named", len(roster)),
	)
	return EnumerationOK{Roster: roster}
}

func (w *Worker) fetchInfo(ctx context.Context, c FetchInfo) Result {
	values, err := w.services.Properties(ctx, c.Device)
	if err != nil {
		logging.Warn("Failed to fetch device info",
			zap.String("udid", c.Device.UDID()),
			zap.Error(err),
		)
		return nil
	}
	return InfoOK{Info: BuildDeviceInfo(values)}
}

func (w *Worker) fetchRegistry(ctx context.Context, c FetchRegistry) Result {
	snapshot, err := w.services.Registry(ctx, c.Device, c.Filter)
	if err != nil {
		logging.Warn("Failed to query IORegistry",
			zap.String("udid", c.Device.UDID()),
			zap.Stringer("filter", c.Filter),
			zap.Error(err),
		)
		return nil
	}
	return RegistryOK{Snapshot: snapshot}
}
