package asock

import (
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStartServer(t *testing.T) {
	t.Parallel()

	t.Run("accept loop stays armed", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(nil)
		rec := newRecorder()
		l, err := e.StartServer(rec.callback, 0)
		require.NoError(t, err)
		defer StopServer(l)

		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			conn, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
			require.NoError(t, err)
			defer conn.Close()

			s := rec.next(t)
			require.False(t, s.ErrorOccurred())
			require.Empty(t, s.ErrorMessage())
			require.NoError(t, s.Err())
			require.NotNil(t, s.Socket())
			require.True(t, s.Socket().Connected())
			require.Equal(t, conn.LocalAddr().String(), s.Socket().RemoteAddr().String())

			seen[s.ID().String()] = true
		}

		require.Len(t, seen, 3)
		require.EqualValues(t, 3, l.Accepted())
		rec.none(t, 50*time.Millisecond)
	})

	t.Run("stop reports one terminal error", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(nil)
		rec := newRecorder()
		l, err := e.StartServer(rec.callback, 0)
		require.NoError(t, err)
		addr := l.Addr().String()

		conn, err := net.DialTimeout("tcp", addr, time.Second)
		require.NoError(t, err)
		defer conn.Close()
		require.False(t, rec.next(t).ErrorOccurred())

		require.NoError(t, StopServer(l))
		require.NoError(t, l.Stop()) // idempotent.

		s := rec.next(t)
		require.True(t, s.ErrorOccurred())
		require.Nil(t, s.Socket())
		require.True(t, errors.Is(s.Err(), ErrListenerClosed))
		require.Equal(t, PhaseAccept, PhaseOf(s.Err()))
		require.Contains(t, s.ErrorMessage(), "accept failed")

		select {
		case <-l.Done():
		case <-time.After(eventTimeout):
			t.Fatal("accept loop did not end")
		}

		_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
		require.Error(t, err)
		rec.none(t, 100*time.Millisecond)
	})

	t.Run("bind failure returns an error without callback", func(t *testing.T) {
		t.Parallel()

		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()

		e := newTestEngine(nil)
		rec := newRecorder()
		l, err := e.StartServer(rec.callback, busy.Addr().(*net.TCPAddr).Port)
		require.Error(t, err)
		require.Nil(t, l)
		require.Equal(t, PhaseBind, PhaseOf(err))
		rec.none(t, 50*time.Millisecond)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Parallel()

		l, err := newTestEngine(nil).StartServer(nil, 70000)
		require.Nil(t, l)
		require.True(t, errors.Is(err, ErrInvalidPort))
	})

	t.Run("stop nil listener", func(t *testing.T) {
		require.NoError(t, StopServer(nil))
	})
}
