// Package dispatch serializes every device-facing operation onto a single
// background worker.
//
// The UI submits Commands to an unbounded queue and polls Results from a
// second unbounded queue without ever blocking. The Worker drains commands
// strictly in arrival order, opens a fresh device connection for each one
// through Services, and pushes at most one Result per command.
//
// # Ordering
//
// Only one command executes at a time, so results come back in the order
// their commands were submitted. Results carry no correlation id: the last
// result of a given kind is the current one.
//
// # Failures
//
// Device I/O failures never stop the worker:
//   - Enumerate always yields exactly one of EnumerationOK, EnumerationFailed
//     or ServiceUnavailable.
//   - Devices whose handshake fails, or that report no DeviceName, are left
//     out of the roster and only logged.
//   - FetchInfo and FetchRegistry failures are logged and yield no Result.
//
// Sending on a queue whose other side has terminated is a programming error
// and panics; TryReceive reports ErrClosed once the worker is gone.
//
// # Usage Example
//
//	d := dispatch.New(device.NewServices(addr, label))
//	go d.Run(ctx)
//
//	d.Submit(dispatch.Enumerate{})
//	// once per UI refresh:
//	if res, ok, err := d.TryReceive(); err != nil {
//	    panic(err)
//	} else if ok {
//	    state.Apply(res)
//	}
package dispatch
