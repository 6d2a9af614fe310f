package asock

import (
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// ConnectToServer connects to host:port and reports the outcome through
// onConnected exactly once. It returns once the attempt has settled, which
// takes at most Config.ResolveTimeout plus Config.ConnectTimeout.
func (e *Engine) ConnectToServer(onConnected Callback, host string, port int) {
	e.ConnectToServerContext(context.Background(), onConnected, host, port)
}

// ConnectToServerContext is ConnectToServer with a parent context. Cancelling
// ctx abandons the attempt, which is then reported as a connect failure.
func (e *Engine) ConnectToServerContext(ctx context.Context, onConnected Callback, host string, port int) {
	state := e.newState(onConnected, nil)

	if !validPort(port) || port == 0 {
		state.fail(PhaseConnect, errors.Wrapf(ErrInvalidPort, "%d", port))
		return
	}

	ip, err := e.resolve(ctx, host)
	if err != nil {
		state.fail(PhaseResolve, err)
		return
	}

	addr := net.JoinHostPort(ip.String(), strconv.Itoa(port))
	dialCtx, cancel := context.WithTimeout(ctx, e.config.ConnectTimeout)
	defer cancel()

	settled := make(chan struct{})
	go func() {
		conn, err := e.dial(dialCtx, "tcp", addr)
		if err != nil {
			close(settled)
			if isTimeout(err) && ctx.Err() == nil {
				err = errors.Wrapf(ErrConnectTimeout, "%s after %v", addr, e.config.ConnectTimeout)
			} else {
				err = errors.Wrapf(err, "dial %s", addr)
			}
			state.fail(PhaseConnect, err)

			return
		}

		state.socket = e.newSocket(conn)
		close(settled)

		e.logger.Debugf("%s: connected", state)
		state.callback(state)
	}()

	<-settled
}

// resolve returns the first IPv4 address of host. When the lookup itself
// fails, host is tried as a literal address.
func (e *Engine) resolve(ctx context.Context, host string) (net.IP, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, e.config.ResolveTimeout)
	defer cancel()

	addrs, err := e.lookup(lookupCtx, host)
	if err == nil {
		for _, a := range addrs {
			if v4 := a.IP.To4(); v4 != nil {
				return v4, nil
			}
		}

		return nil, errors.Wrapf(ErrNoIPv4Address, "resolve %q", host)
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}

	e.logger.Debugf("lookup %q: %v", host, err)

	return nil, errors.Wrapf(ErrInvalidAddress, "%q", host)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
