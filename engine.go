package asock

import (
	"context"
	"net"
)

// Engine owns the configuration shared by listeners and connections.
// The package-level functions use a default Engine with default settings.
type Engine struct {
	config *Config
	logger Logger

	// hooks replaced by tests to cover resolution and connect timeouts.
	lookup func(ctx context.Context, host string) ([]net.IPAddr, error)
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)
}

var defaultEngine = New(nil)

// New creates an Engine. A nil config selects the defaults.
func New(config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}
	cfg := *config
	cfg.applyDefaults()

	dialer := &net.Dialer{KeepAlive: cfg.KeepAliveInterval}

	return &Engine{
		config: &cfg,
		logger: cfg.Logger,
		lookup: net.DefaultResolver.LookupIPAddr,
		dial:   dialer.DialContext,
	}
}

// Config returns a copy of the engine's effective configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// StartServer listens on port with the default Engine.
func StartServer(onConnection Callback, port int) (*Listener, error) {
	return defaultEngine.StartServer(onConnection, port)
}

// StopServer closes l. Its accept loop reports ErrListenerClosed once and ends.
func StopServer(l *Listener) error {
	if l == nil {
		return nil
	}

	return l.Stop()
}

// ConnectToServer connects to host:port with the default Engine.
func ConnectToServer(onConnected Callback, host string, port int) {
	defaultEngine.ConnectToServer(onConnected, host, port)
}

// GetData starts one asynchronous read on state.
func GetData(state *ConnectionState) {
	if state == nil {
		return
	}

	state.Receive()
}

// Send schedules text to be written on s.
func Send(s *Socket, text string) bool {
	return s.schedule([]byte(text), false, nil)
}

// SendAndClose schedules text to be written on s and closes s afterwards.
func SendAndClose(s *Socket, text string) bool {
	return s.schedule([]byte(text), true, nil)
}

// SendNotify is Send with the outcome of the write delivered on done.
// The send on done blocks, so done must be buffered or drained by the caller.
func SendNotify(s *Socket, text string, done chan<- SendResult) bool {
	return s.schedule([]byte(text), false, done)
}

// SendAndCloseNotify is SendAndClose with the outcome of the write delivered on done.
// As with SendNotify, done must be buffered or drained.
func SendAndCloseNotify(s *Socket, text string, done chan<- SendResult) bool {
	return s.schedule([]byte(text), true, done)
}
