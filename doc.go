// Package asock provides callback-driven asynchronous TCP connections.
//
// Every connection, accepted or dialed, is represented by a single
// ConnectionState. The user callback is invoked when a connection is
// established, when a receive completes and, exactly once, when the
// connection fails.
//
// Features:
//   - Accept: StartServer runs a self-perpetuating accept loop until the
//     listener is stopped with StopServer.
//   - Connect: ConnectToServer resolves the host, prefers IPv4 and bounds the
//     attempt with Config.ConnectTimeout.
//   - Receive: GetData starts one read. The next read is only started when
//     the caller asks for it again.
//   - Transmit: Send and SendAndClose schedule writes without blocking the
//     caller. The Notify variants report the outcome on a channel.
//
// Basic Server Example:
//
//	l, err := asock.StartServer(func(s *asock.ConnectionState) {
//	    if s.ErrorOccurred() {
//	        return
//	    }
//	    if line := s.Text().Drain(); line != "" {
//	        asock.Send(s.Socket(), line)
//	    }
//	    asock.GetData(s)
//	}, 9000)
//	if err != nil {
//	    // handle error
//	}
//	defer asock.StopServer(l)
//
// Basic Client Example:
//
//	asock.ConnectToServer(func(s *asock.ConnectionState) {
//	    if s.ErrorOccurred() {
//	        log.Println(s.ErrorMessage())
//	        return
//	    }
//	    asock.Send(s.Socket(), "PING\n")
//	    asock.GetData(s)
//	}, "localhost", 9000)
//
// The accumulated text buffer is the only state shared with the receive
// goroutines and is always accessed under its own lock. The socket itself is
// not locked: closing a socket while another goroutine sends on it is the
// caller's responsibility.
package asock
