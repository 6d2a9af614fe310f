package asock

import (
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	socketOpen int32 = iota
	socketClosing
	socketClosed
)

// Socket is the transport handle owned by a ConnectionState.
//
// Writes issued through Send and SendAndClose complete in the order they were
// issued. Nothing else about concurrent use is serialized: closing a socket
// while another goroutine is sending on it is the caller's concern.
//
// A write stalled on a peer that stopped reading only ends at its deadline.
// Without Config.WriteTimeout that is never, unless the owning state fails
// while a SendAndClose is draining, which caps the write at Config.DrainTimeout.
type Socket struct {
	conn   net.Conn
	engine *Engine
	state  atomic.Int32

	closeOnce sync.Once
	closeErr  error

	tailMu sync.Mutex
	tail   chan struct{} // closed when the most recently scheduled write is done.
}

func (e *Engine) newSocket(conn net.Conn) *Socket {
	e.configure(conn)

	return &Socket{conn: conn, engine: e}
}

// configure disables write coalescing and applies keepalive settings.
func (e *Engine) configure(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}

	if err := tcpConn.SetNoDelay(true); err != nil {
		e.logger.Warnf("set no delay on %v: %v", conn.RemoteAddr(), err)
	}

	if e.config.KeepAliveInterval > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			e.logger.Warnf("set keepalive on %v: %v", conn.RemoteAddr(), err)
		}
		if err := tcpConn.SetKeepAlivePeriod(e.config.KeepAliveInterval); err != nil {
			e.logger.Warnf("set keepalive period on %v: %v", conn.RemoteAddr(), err)
		}
	}
}

// Connected reports whether the socket still accepts new operations.
// It turns false as soon as SendAndClose is scheduled or Close is called.
func (s *Socket) Connected() bool {
	return s != nil && s.state.Load() == socketOpen
}

// Close closes the underlying connection. It is safe to call more than once.
func (s *Socket) Close() error {
	if s == nil {
		return nil
	}

	s.state.Store(socketClosed)
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})

	return s.closeErr
}

// release closes the socket unless a SendAndClose is still draining. The
// draining write is then given at most Config.DrainTimeout to finish and
// closes the socket itself.
func (s *Socket) release() error {
	if s.state.Load() == socketClosing {
		return s.conn.SetWriteDeadline(time.Now().Add(s.engine.config.DrainTimeout))
	}

	return s.Close()
}

// NetConn returns the underlying connection.
func (s *Socket) NetConn() net.Conn {
	return s.conn
}

func (s *Socket) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Socket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *Socket) String() string {
	return s.conn.LocalAddr().String() + "->" + s.conn.RemoteAddr().String()
}

// read performs one read into p, applying the configured read deadline.
func (s *Socket) read(p []byte) (int, error) {
	if d := s.engine.config.ReadTimeout; d > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
			return 0, err
		}
	}

	return s.conn.Read(p)
}

// write writes all of p, applying the configured write deadline.
func (s *Socket) write(p []byte) (int, error) {
	if d := s.engine.config.WriteTimeout; d > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
			return 0, err
		}
	}

	return s.conn.Write(p)
}

// enqueue appends a write to the socket's completion chain. It returns the
// channel to wait on before writing and the one to close when done.
func (s *Socket) enqueue() (prev <-chan struct{}, next chan struct{}) {
	next = make(chan struct{})

	s.tailMu.Lock()
	prev = s.tail
	s.tail = next
	s.tailMu.Unlock()

	return prev, next
}
