package asock

import (
	"github.com/pkg/errors"
)

var (
	// ErrListenerClosed indicates the accept loop stopped because its listener was closed.
	ErrListenerClosed = errors.New("listener closed")

	// ErrPeerClosed indicates the remote side closed the connection.
	ErrPeerClosed = errors.New("connection closed by peer")

	// ErrSocketClosed indicates an operation was attempted on a socket that is no longer connected.
	ErrSocketClosed = errors.New("socket is not connected")

	// ErrNoIPv4Address indicates name resolution succeeded without yielding an IPv4 address.
	ErrNoIPv4Address = errors.New("no IPv4 address found")

	// ErrInvalidAddress indicates the host could neither be resolved nor parsed as an address.
	ErrInvalidAddress = errors.New("not a valid address")

	// ErrConnectTimeout indicates the connect attempt did not settle before the timeout.
	ErrConnectTimeout = errors.New("connect timed out")

	// ErrInvalidPort indicates a port outside 0-65535, or port 0 when connecting.
	ErrInvalidPort = errors.New("invalid port")
)

// Phase names the step of the connection lifecycle that failed.
type Phase string

const (
	PhaseBind    Phase = "bind"
	PhaseAccept  Phase = "accept"
	PhaseResolve Phase = "resolve"
	PhaseConnect Phase = "connect"
	PhaseReceive Phase = "receive"
	PhaseSend    Phase = "send"
)

// OpError is the error recorded on a failed ConnectionState.
type OpError struct {
	Phase Phase
	Err   error
}

func (e *OpError) Error() string {
	return string(e.Phase) + " failed: " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) Cause() error {
	return e.Err
}

// PhaseOf returns the phase recorded in err, or an empty Phase if err carries none.
func PhaseOf(err error) Phase {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Phase
	}

	return ""
}

func validPort(port int) bool {
	return port >= 0 && port <= 65535
}
