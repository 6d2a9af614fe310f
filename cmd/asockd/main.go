package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/andrei-cloud/asock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	mode        = flag.String("mode", "server", "server or client")
	host        = flag.String("host", "127.0.0.1", "server host for client mode")
	port        = flag.Int("port", 11000, "TCP port")
	clients     = flag.Int("clients", 1, "number of concurrent clients in client mode")
	message     = flag.String("message", "PING", "line sent by each client")
	connTimeout = flag.Duration("connect-timeout", asock.DefaultConnectTimeout, "connect timeout")
	replyWait   = flag.Duration("reply-timeout", 5*time.Second, "how long a client waits for its reply")
	debug       = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	engine := asock.New(&asock.Config{
		ConnectTimeout: *connTimeout,
		Logger:         asock.NewZerologLogger(zl),
	})

	var err error
	switch *mode {
	case "server":
		err = runServer(engine, zl)
	case "client":
		err = runClient(engine, zl)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		zl.Error().Err(err).Msg("asockd stopped")
		os.Exit(1)
	}
}

// runServer answers PING with PONG, QUIT with BYE followed by a close, and
// echoes every other line.
func runServer(engine *asock.Engine, zl zerolog.Logger) error {
	lines := newLineSplitter()

	l, err := engine.StartServer(func(s *asock.ConnectionState) {
		if s.ErrorOccurred() {
			lines.forget(s.ID())
			if !errors.Is(s.Err(), asock.ErrListenerClosed) {
				zl.Info().Str("conn", s.ID().String()).Msg(s.ErrorMessage())
			}
			return
		}

		for _, line := range lines.feed(s.ID(), s.Text().Drain()) {
			switch strings.ToUpper(line) {
			case "PING":
				asock.Send(s.Socket(), "PONG\n")
			case "QUIT":
				asock.SendAndClose(s.Socket(), "BYE\n")
				lines.forget(s.ID())
				return
			default:
				asock.Send(s.Socket(), line+"\n")
			}
		}

		asock.GetData(s)
	}, *port)
	if err != nil {
		return err
	}

	zl.Info().Int("port", l.Port()).Msg("server started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		if err := asock.StopServer(l); err != nil {
			return err
		}
		<-l.Done()
	case <-l.Done():
	}

	zl.Info().Uint64("accepted", l.Accepted()).Msg("server stopped")

	return nil
}

// runClient connects -clients times concurrently, sends -message and waits
// for one reply line on each connection.
func runClient(engine *asock.Engine, zl zerolog.Logger) error {
	eg := errgroup.Group{}
	eg.SetLimit(*clients)

	start := time.Now()
	for i := 0; i < *clients; i++ {
		id := i
		eg.Go(func() error {
			reply, err := exchange(engine, *message)
			if err != nil {
				return errors.Wrapf(err, "client %d", id)
			}

			zl.Debug().Int("client", id).Str("reply", reply).Msg("reply received")

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	zl.Info().Int("clients", *clients).Dur("elapsed", time.Since(start)).Msg("all replies received")

	return nil
}

// exchange performs one request/response round trip.
func exchange(engine *asock.Engine, msg string) (string, error) {
	type outcome struct {
		reply string
		err   error
	}

	result := make(chan outcome, 1)
	var once sync.Once
	report := func(o outcome) {
		once.Do(func() { result <- o })
	}

	var got strings.Builder
	engine.ConnectToServer(func(s *asock.ConnectionState) {
		if s.ErrorOccurred() {
			report(outcome{err: s.Err()})
			return
		}

		got.WriteString(s.Text().Drain())
		if reply, _, found := strings.Cut(got.String(), "\n"); found {
			report(outcome{reply: reply})
			_ = s.Close()
			return
		}

		if got.Len() == 0 && !asock.Send(s.Socket(), msg+"\n") {
			report(outcome{err: asock.ErrSocketClosed})
			return
		}

		asock.GetData(s)
	}, *host, *port)

	ctx, cancel := context.WithTimeout(context.Background(), *replyWait)
	defer cancel()

	select {
	case o := <-result:
		return o.reply, o.err
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for reply")
	}
}
