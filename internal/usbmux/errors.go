package usbmux

import (
	"errors"
	"fmt"
	"net"
)

// ErrUnavailable reports that the usbmuxd socket could not be reached at all.
// It usually means the daemon is not installed or not running.
var ErrUnavailable = errors.New("usbmuxd unavailable")

// UnavailableError wraps the dial failure behind ErrUnavailable.
type UnavailableError struct {
	Addr Addr
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot reach usbmuxd at %s: %v", e.Addr, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) match.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Classify marks err as ErrUnavailable when it is a failure to dial the
// daemon. Other errors are returned unchanged.
func Classify(addr Addr, err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &UnavailableError{Addr: addr, Err: err}
	}
	return err
}
