package asock

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Callback is invoked when a connection is established, when a receive
// completes and once when the connection fails. It may run on any goroutine.
type Callback func(state *ConnectionState)

// ConnectionState is the record kept for one accepted or dialed connection.
type ConnectionState struct {
	id       uuid.UUID
	engine   *Engine
	socket   *Socket
	text     TextBuffer
	callback Callback

	pending []byte // scratch buffer of the in-flight read, nil otherwise.
	reading atomic.Bool

	failing atomic.Bool // claimed by the first fail call.
	failed  atomic.Bool // set once err is visible.
	err     error
}

func (e *Engine) newState(cb Callback, s *Socket) *ConnectionState {
	if cb == nil {
		cb = func(*ConnectionState) {}
	}

	return &ConnectionState{
		id:       uuid.New(),
		engine:   e,
		socket:   s,
		callback: cb,
	}
}

func (s *ConnectionState) ID() uuid.UUID {
	return s.id
}

// Socket returns the transport handle, or nil when no connection exists.
func (s *ConnectionState) Socket() *Socket {
	return s.socket
}

// Text returns the buffer of received text not yet consumed.
func (s *ConnectionState) Text() *TextBuffer {
	return &s.text
}

func (s *ConnectionState) ErrorOccurred() bool {
	return s.failed.Load()
}

// ErrorMessage describes which phase failed and why, or is empty.
func (s *ConnectionState) ErrorMessage() string {
	if !s.failed.Load() {
		return ""
	}

	return s.err.Error()
}

// Err returns the recorded *OpError, or nil.
func (s *ConnectionState) Err() error {
	if !s.failed.Load() {
		return nil
	}

	return s.err
}

// Close ends the state's ownership of its socket. A pending read then fails
// and is reported through the callback.
func (s *ConnectionState) Close() error {
	return s.socket.Close()
}

func (s *ConnectionState) String() string {
	if s.socket == nil {
		return s.id.String()
	}

	return s.id.String() + " " + s.socket.String()
}

// fail records err, closes the socket and invokes the callback. Only the
// first call has any effect.
func (s *ConnectionState) fail(phase Phase, err error) {
	if !s.failing.CompareAndSwap(false, true) {
		return
	}

	s.err = &OpError{Phase: phase, Err: err}
	s.failed.Store(true)

	if s.socket != nil {
		if cerr := s.socket.release(); cerr != nil {
			s.engine.logger.Debugf("%s: close after failure: %v", s.id, cerr)
		}
	}

	if errors.Is(err, ErrPeerClosed) || errors.Is(err, ErrListenerClosed) {
		s.engine.logger.Debugf("%s: %v", s.id, s.err)
	} else {
		s.engine.logger.Warnf("%s: %v", s.id, s.err)
	}
	s.callback(s)
}

// notify invokes the callback for a completed event unless the state failed.
func (s *ConnectionState) notify() {
	if s.failing.Load() {
		return
	}

	s.callback(s)
}
