package asock

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debugf("hidden %d", 1)
	require.Empty(t, buf.String())

	l.Infof("accepted %s", "conn")
	require.Contains(t, buf.String(), `"level":"info"`)
	require.Contains(t, buf.String(), `"message":"accepted conn"`)

	buf.Reset()
	l.Warnf("receive failed")
	require.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	l.Print("a", "b")
	require.Contains(t, buf.String(), `"message":"ab"`)
}

func TestEngineConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := New(nil).Config()
	require.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	require.Equal(t, DefaultResolveTimeout, cfg.ResolveTimeout)
	require.Equal(t, DefaultReceiveBufferSize, cfg.ReceiveBufferSize)
	require.Equal(t, DefaultKeepAliveInterval, cfg.KeepAliveInterval)
	require.Equal(t, DefaultDrainTimeout, cfg.DrainTimeout)
	require.Zero(t, cfg.ReadTimeout)
	require.Zero(t, cfg.WriteTimeout)
	require.IsType(t, &NoopLogger{}, cfg.Logger)

	own := &Config{ReceiveBufferSize: 16}
	e := New(own)
	require.Equal(t, 16, e.Config().ReceiveBufferSize)
	require.Nil(t, own.Logger, "caller's config must not be modified")
}

func TestFailureLogLevels(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(&Config{Logger: NewZerologLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))})
	rec := newRecorder()

	closed := e.newState(rec.callback, e.newSocket(newMockConn(readStep{err: io.EOF})))
	GetData(closed)
	require.True(t, errors.Is(rec.next(t).Err(), ErrPeerClosed))

	e.newState(rec.callback, nil).fail(PhaseAccept, errors.Wrap(ErrListenerClosed, "127.0.0.1:1"))
	require.True(t, rec.next(t).ErrorOccurred())

	require.Empty(t, buf.String(), "orderly shutdowns are not warnings")

	reset := e.newState(rec.callback, e.newSocket(newMockConn(readStep{err: errors.New("connection reset")})))
	GetData(reset)
	require.True(t, rec.next(t).ErrorOccurred())
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), "connection reset")
}
