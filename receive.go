package asock

import (
	"io"

	"github.com/pkg/errors"
)

// Receive starts one asynchronous read. When it completes, the bytes read
// are appended to Text and the callback is invoked. No further read is
// started until Receive is called again.
//
// A read that returns no data because the peer closed the connection is
// reported as a failure with ErrPeerClosed.
func (s *ConnectionState) Receive() {
	if s.failing.Load() {
		return
	}

	if !s.socket.Connected() {
		s.fail(PhaseReceive, ErrSocketClosed)
		return
	}

	if !s.reading.CompareAndSwap(false, true) {
		s.engine.logger.Warnf("%s: receive already in flight, request ignored", s.id)
		return
	}

	s.pending = globalBufferPool.get(s.engine.config.ReceiveBufferSize)

	go s.completeReceive()
}

func (s *ConnectionState) completeReceive() {
	n, err := s.socket.read(s.pending)
	if n > 0 {
		// errors accompanying data resurface on the next read.
		s.text.Append(s.pending[:n])
	}

	globalBufferPool.put(s.pending)
	s.pending = nil
	s.reading.Store(false)

	if n > 0 {
		s.notify()
		return
	}

	switch {
	case errors.Is(err, io.EOF):
		err = ErrPeerClosed
	case err == nil:
		// zero-length read without an error; treat it like an empty chunk.
		s.notify()
		return
	}

	s.fail(PhaseReceive, err)
}
