package asock

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const eventTimeout = 3 * time.Second

// waitTimeout reports whether wg finished within d.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		wg.Wait()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-finished:
		return true
	case <-timer.C:
		return false
	}
}

// recorder is a Callback that queues every invocation for the test to inspect.
type recorder struct {
	events chan *ConnectionState
}

func newRecorder() *recorder {
	return &recorder{events: make(chan *ConnectionState, 256)}
}

func (r *recorder) callback(s *ConnectionState) {
	r.events <- s
}

// next waits for the next callback invocation.
func (r *recorder) next(t *testing.T) *ConnectionState {
	t.Helper()

	select {
	case s := <-r.events:
		return s
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for callback")
		return nil
	}
}

// none asserts that no callback fires within d.
func (r *recorder) none(t *testing.T, d time.Duration) {
	t.Helper()

	select {
	case s := <-r.events:
		t.Fatalf("unexpected callback: failed=%v msg=%q", s.ErrorOccurred(), s.ErrorMessage())
	case <-time.After(d):
	}
}

func newTestEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ListenHost = "127.0.0.1"

	return New(cfg)
}

// acceptedPair starts a listener on e and dials it with a plain net.Conn.
// It returns the server-side state, the raw client conn and the recorder
// bound to the listener.
func acceptedPair(t *testing.T, e *Engine) (*ConnectionState, net.Conn, *recorder) {
	t.Helper()

	rec := newRecorder()
	l, err := e.StartServer(rec.callback, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Stop() })

	conn, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	s := rec.next(t)
	require.False(t, s.ErrorOccurred(), s.ErrorMessage())

	return s, conn, rec
}

// receiveAtLeast issues reads on s until n bytes are buffered.
func receiveAtLeast(t *testing.T, rec *recorder, s *ConnectionState, n int) {
	t.Helper()

	for s.Text().Len() < n {
		GetData(s)
		ev := rec.next(t)
		require.Same(t, s, ev)
		require.False(t, ev.ErrorOccurred(), ev.ErrorMessage())
	}
}
