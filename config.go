package asock

import (
	"time"
)

const (
	DefaultConnectTimeout    = 5 * time.Second  // default bound for a single connect attempt.
	DefaultResolveTimeout    = 5 * time.Second  // default bound for host name resolution.
	DefaultReceiveBufferSize = 1024             // default size of the per-read scratch buffer.
	DefaultReadTimeout       = 0 * time.Second  // default read timeout disables read deadlines.
	DefaultWriteTimeout      = 0 * time.Second  // default write timeout disables write deadlines.
	DefaultKeepAliveInterval = 30 * time.Second // default TCP keepalive period.
	DefaultDrainTimeout      = 5 * time.Second  // default grace for a SendAndClose write after a failure.
)

type Config struct {
	ListenHost        string        // local address to bind; empty means all interfaces.
	ConnectTimeout    time.Duration // maximum duration of a connect attempt.
	ResolveTimeout    time.Duration // maximum duration of a host name lookup.
	ReceiveBufferSize int           // size of the scratch buffer used by one read.
	ReadTimeout       time.Duration // deadline applied to each read; zero disables.
	WriteTimeout      time.Duration // deadline applied to each write; zero disables.
	KeepAliveInterval time.Duration // interval for TCP keepalive probes; negative disables.
	DrainTimeout      time.Duration // grace for a SendAndClose write once its state failed.
	Logger            Logger        // optional logger for connection events.
}

func (c *Config) applyDefaults() {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}

	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}

	if c.ReceiveBufferSize <= 0 {
		c.ReceiveBufferSize = DefaultReceiveBufferSize
	}

	if c.KeepAliveInterval == 0 {
		c.KeepAliveInterval = DefaultKeepAliveInterval
	}

	if c.DrainTimeout <= 0 {
		c.DrainTimeout = DefaultDrainTimeout
	}

	if c.Logger == nil {
		c.Logger = &NoopLogger{}
	}
}
