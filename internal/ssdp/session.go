package ssdp

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/logging"
)

// Discovery defaults
const (
	// DefaultSearchTarget matches every SSDP service
	DefaultSearchTarget = SearchTargetAll

	// DefaultMaxWait is the default MX response-wait window in seconds
	DefaultMaxWait = 3

	// DefaultTimeout is the default per-round listen window (MX + 1s of
	// slack for network and scheduling delay)
	DefaultTimeout = (DefaultMaxWait + 1) * time.Second

	// DefaultRetries is the default number of probe rounds after the first
	DefaultRetries = 3

	// maxDatagramSize is the largest UDP payload a reply can carry
	maxDatagramSize = 65507
)

// Config holds the immutable parameters of one discovery session.
type Config struct {
	// SearchTarget is the SSDP ST value (e.g. "ssdp:all", a URN, or a
	// device type). Must be non-empty.
	SearchTarget string

	// MaxWait is the MX window in seconds. Devices randomize their reply
	// delay within this window; 1-5 is the valid range.
	MaxWait int

	// Timeout is how long the session listens for replies after each send.
	// Must be at least MaxWait seconds.
	Timeout time.Duration

	// Retries is the number of additional probe rounds after the first
	Retries int

	// Verbose surfaces per-datagram parse diagnostics through the logger.
	// It is not a behavioral input to discovery itself.
	Verbose bool

	// IPv6 probes the FF02::C link-local group instead of 239.255.255.250
	IPv6 bool
}

// DefaultConfig returns a Config with the documented defaults:
// ST=ssdp:all, MX=3, timeout=MX+1, 3 retries.
func DefaultConfig() Config {
	return Config{
		SearchTarget: DefaultSearchTarget,
		MaxWait:      DefaultMaxWait,
		Timeout:      DefaultTimeout,
		Retries:      DefaultRetries,
	}
}

// Validate checks the configuration before any network I/O.
// Returns a configuration error describing the first violation found.
func (c Config) Validate() error {
	if c.SearchTarget == "" {
		return NewConfigError("search target must not be empty")
	}
	if c.MaxWait < MinMaxWait || c.MaxWait > MaxMaxWait {
		return NewConfigError(fmt.Sprintf(
			"MX value %d out of range (%d-%d)", c.MaxWait, MinMaxWait, MaxMaxWait))
	}
	if c.Timeout < time.Duration(c.MaxWait)*time.Second {
		return NewConfigError(fmt.Sprintf(
			"timeout %s shorter than MX window %ds", c.Timeout, c.MaxWait))
	}
	if c.Retries < 0 {
		return NewConfigError("retry count must not be negative")
	}
	return nil
}

// conn is the subset of *net.UDPConn the session drives. Tests inject a
// scripted implementation; production code uses openSocket.
type conn interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
	ReadFrom(p []byte) (int, net.Addr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// clock abstracts time.Now so tests can drive deadlines deterministically
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Session runs one active SSDP discovery: it multicasts M-SEARCH probes,
// collects unicast replies, deduplicates them, and returns the aggregate
// result set.
//
// A Session owns its socket exclusively and drives it from a single
// goroutine, so send and receive are strictly sequenced and no locking is
// needed. Independent sessions may run concurrently; they share nothing.
type Session struct {
	cfg Config

	// dial opens the multicast socket and returns it with the group
	// address to probe. Replaced in tests.
	dial func() (conn, net.Addr, error)

	clock clock

	// onRecord, when set, is invoked for each first-seen unique record as
	// it arrives. Used by the live watch screen.
	onRecord func(*ServiceRecord)
}

// NewSession validates cfg and constructs a session. Validation failures
// surface immediately, before any socket is created.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:   cfg,
		clock: systemClock{},
	}
	s.dial = func() (conn, net.Addr, error) {
		return openSocket(cfg.IPv6)
	}
	return s, nil
}

// OnRecord registers a callback invoked for each unique record as its
// first reply arrives. Must be set before Run.
func (s *Session) OnRecord(fn func(*ServiceRecord)) {
	s.onRecord = fn
}

// Run executes the full send/listen/retry cycle and returns the aggregated
// result set.
//
// Socket setup failure is fatal and returns a socket error with no
// results. A failed send is not: the packet may have partially gone out,
// so the round proceeds to listening and later rounds still probe. Every
// round runs its full listen window regardless of how many replies have
// arrived, because devices stagger replies within their MX window.
//
// Cancelling ctx ends the session at the next round boundary; mid-receive
// cancellation is best-effort, checked between datagrams. Run always
// returns the records accumulated so far when cancelled.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	request, err := BuildSearchRequest(s.cfg.SearchTarget, s.cfg.MaxWait, s.cfg.IPv6)
	if err != nil {
		return nil, err
	}

	c, group, err := s.dial()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	dedup := newDeduplicator()
	result := &Result{}

	rounds := s.cfg.Retries + 1
	for round := 0; round < rounds; round++ {
		if ctx.Err() != nil {
			break
		}

		// Sending
		if _, err := c.WriteTo(request, group); err != nil {
			terr := NewTransportError("failed to send M-SEARCH probe", err)
			logging.Warn("probe send failed",
				zap.Int("round", round+1),
				zap.Int("rounds", rounds),
				zap.Error(terr),
			)
		} else {
			logging.Debug("probe sent",
				zap.Int("round", round+1),
				zap.Int("rounds", rounds),
				zap.String("group", group.String()),
				zap.String("st", s.cfg.SearchTarget),
			)
		}

		// Listening
		s.listen(ctx, c, dedup, result)
	}

	result.Records = dedup.result()
	return result, nil
}

// listen receives datagrams until the round's listen window elapses or ctx
// is cancelled. Malformed datagrams are dropped and counted; they never
// abort the round.
func (s *Session) listen(ctx context.Context, c conn, dedup *deduplicator, result *Result) {
	deadline := s.clock.Now().Add(s.cfg.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	buf := make([]byte, maxDatagramSize)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.SetReadDeadline(deadline); err != nil {
			logging.Debug("cannot arm read deadline", zap.Error(err))
			return
		}

		n, src, err := c.ReadFrom(buf)
		if err != nil {
			if !isTimeout(err) {
				// Per-datagram read failures are contained: partial results
				// beat an all-or-nothing failure on a lossy transport.
				logging.Debug("receive failed", zap.Error(err))
			}
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		rec, diags := ParseResponse(data, src)
		if rec == nil {
			result.Dropped++
			if s.cfg.Verbose {
				logging.LogDroppedDatagram(src, data, diags)
			}
			continue
		}

		if dedup.add(rec) {
			logging.Debug("service discovered",
				zap.String("usn", rec.USN),
				zap.String("location", rec.Location),
				zap.String("source", rec.SourceAddr),
			)
			if s.onRecord != nil {
				s.onRecord(rec)
			}
		}
	}
}

// Discover is a convenience wrapper: one session with cfg, run to
// completion without cancellation.
func Discover(cfg Config) (*Result, error) {
	session, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return session.Run(context.Background())
}
