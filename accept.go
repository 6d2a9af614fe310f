package asock

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Listener is the handle returned by StartServer.
type Listener struct {
	listener net.Listener  // TCP listener for incoming connections.
	engine   *Engine       // engine the accepted sockets are configured by.
	callback Callback      // user callback for every accepted connection.
	accepted atomic.Uint64 // number of connections handed to the callback.
	done     chan struct{} // closed when the accept loop has ended.
	stopOnce sync.Once
	stopErr  error
}

// StartServer binds port on Config.ListenHost and starts the accept loop.
// Every accepted connection is passed to onConnection, after which the next
// accept is started. On bind failure it returns an error and onConnection is
// never called.
func (e *Engine) StartServer(onConnection Callback, port int) (*Listener, error) {
	if !validPort(port) {
		return nil, &OpError{Phase: PhaseBind, Err: errors.Wrapf(ErrInvalidPort, "%d", port)}
	}
	if onConnection == nil {
		onConnection = func(*ConnectionState) {}
	}

	addr := net.JoinHostPort(e.config.ListenHost, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &OpError{Phase: PhaseBind, Err: errors.Wrapf(err, "listen on %s", addr)}
	}

	l := &Listener{
		listener: ln,
		engine:   e,
		callback: onConnection,
		done:     make(chan struct{}),
	}

	e.logger.Infof("listening on %v", ln.Addr())

	go l.acceptLoop()

	return l, nil
}

func (l *Listener) acceptLoop() {
	defer close(l.done)

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				err = errors.Wrapf(ErrListenerClosed, "%v", l.listener.Addr())
			}
			// no socket exists for a failed accept.
			l.engine.newState(l.callback, nil).fail(PhaseAccept, err)

			return
		}

		l.accepted.Add(1)
		state := l.engine.newState(l.callback, l.engine.newSocket(conn))
		l.engine.logger.Debugf("%s: accepted", state)

		l.callback(state)
	}
}

// Stop closes the listener. The pending accept then fails and is reported
// once through the callback. Stop does not wait for the loop to end; use Done.
func (l *Listener) Stop() error {
	l.stopOnce.Do(func() {
		l.stopErr = l.listener.Close()
	})

	return l.stopErr
}

// Done is closed once the accept loop has reported its terminal error.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Port returns the bound port, which is useful after listening on port 0.
func (l *Listener) Port() int {
	if tcpAddr, ok := l.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}

	return 0
}

// Accepted returns how many connections have been handed to the callback.
func (l *Listener) Accepted() uint64 {
	return l.accepted.Load()
}
