package asock

// SendResult is the outcome of one scheduled write.
type SendResult struct {
	Bytes int   // number of bytes written.
	Err   error // nil on success.
}

// OK reports whether the write succeeded.
func (r SendResult) OK() bool {
	return r.Err == nil
}

// schedule queues p for writing and returns whether the write was scheduled.
// A failed write closes the socket. With closeAfter the socket stops
// accepting new operations immediately and is closed once p is written.
func (s *Socket) schedule(p []byte, closeAfter bool, done chan<- SendResult) bool {
	if s == nil {
		return false
	}

	if closeAfter {
		if !s.state.CompareAndSwap(socketOpen, socketClosing) {
			return false
		}
	} else if !s.Connected() {
		return false
	}

	prev, next := s.enqueue()

	go func() {
		if prev != nil {
			<-prev
		}

		n, err := s.write(p)
		if err != nil {
			s.engine.logger.Warnf("%s: %v", s, &OpError{Phase: PhaseSend, Err: err})
			if cerr := s.Close(); cerr != nil {
				s.engine.logger.Debugf("%s: close after failed send: %v", s, cerr)
			}
		} else if closeAfter {
			if cerr := s.Close(); cerr != nil {
				s.engine.logger.Debugf("%s: close after send: %v", s, cerr)
			}
		}

		close(next)

		if done != nil {
			res := SendResult{Bytes: n}
			if err != nil {
				res.Err = &OpError{Phase: PhaseSend, Err: err}
			}
			done <- res
		}
	}()

	return true
}
