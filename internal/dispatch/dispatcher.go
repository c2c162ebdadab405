package dispatch

import (
	"context"
	"time"
)

// Dispatcher pairs a Worker with its two queues.
type Dispatcher struct {
	commands *Queue[Command]
	results  *Queue[Result]
	worker   *Worker
}

// Option configures a Dispatcher.
type Option func(*Worker)

// WithOperationTimeout bounds every device operation. Zero (the default)
// lets a hung device stall the worker indefinitely.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.timeout = d
	}
}

// New creates a dispatcher. Call Run to start the worker.
func New(services Services, opts ...Option) *Dispatcher {
	commands := NewQueue[Command]("command")
	results := NewQueue[Result]("result")
	worker := NewWorker(services, commands, results)
	for _, opt := range opts {
		opt(worker)
	}

	return &Dispatcher{
		commands: commands,
		results:  results,
		worker:   worker,
	}
}

// Run executes commands until ctx is done or Close is called.
func (d *Dispatcher) Run(ctx context.Context) error {
	return d.worker.Run(ctx)
}

// Submit queues cmd without blocking. It panics if the worker has terminated.
func (d *Dispatcher) Submit(cmd Command) {
	d.commands.Send(cmd)
}

// TryReceive returns the next result without blocking. ErrClosed means the
// worker has terminated and no results remain.
func (d *Dispatcher) TryReceive() (Result, bool, error) {
	return d.results.TryReceive()
}

// Receive blocks for the next result. Intended for one-shot CLI commands.
func (d *Dispatcher) Receive(ctx context.Context) (Result, error) {
	return d.results.Receive(ctx)
}

// Close stops accepting commands. Commands already queued still execute.
func (d *Dispatcher) Close() {
	d.commands.Close()
}
