package ssdp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

// timeoutError mimics the net.Error a UDP read returns when its deadline
// expires.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type fakeDatagram struct {
	data []byte
	src  net.Addr
}

// fakeConn is a scripted socket. Each listen window drains the queue for
// the current round, then reports a read timeout.
type fakeConn struct {
	rounds [][]fakeDatagram // datagrams delivered per round
	round  int

	sends     [][]byte
	sendAddrs []net.Addr
	sendErr   error

	deadlines []time.Time
	closed    bool
}

func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	msg := make([]byte, len(p))
	copy(msg, p)
	c.sends = append(c.sends, msg)
	c.sendAddrs = append(c.sendAddrs, addr)
	if c.sendErr != nil {
		return 0, c.sendErr
	}
	return len(p), nil
}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) {
	if c.round >= len(c.rounds) || len(c.rounds[c.round]) == 0 {
		// window exhausted: advance to the next round's script
		c.round++
		return 0, nil, timeoutError{}
	}
	d := c.rounds[c.round][0]
	c.rounds[c.round] = c.rounds[c.round][1:]
	n := copy(p, d.data)
	return n, d.src, nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.deadlines = append(c.deadlines, t)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

var sessionEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestSession wires a session to the given fake conn with a fixed clock.
// dialCount tracks socket-layer side effects.
func newTestSession(t *testing.T, cfg Config, fc *fakeConn, dialCount *int) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.clock = &fakeClock{now: sessionEpoch}
	s.dial = func() (conn, net.Addr, error) {
		if dialCount != nil {
			*dialCount++
		}
		return fc, &net.UDPAddr{IP: net.ParseIP(MulticastAddr4), Port: MulticastPort}, nil
	}
	return s
}

func reply(usn, location string) []byte {
	data := "HTTP/1.1 200 OK\r\n"
	if location != "" {
		data += "LOCATION: " + location + "\r\n"
	}
	if usn != "" {
		data += "USN: " + usn + "\r\n"
	}
	return []byte(data + "ST: upnp:rootdevice\r\n\r\n")
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Retries = 0
	return cfg
}

func TestSession_Run_CollectsAndDeduplicates(t *testing.T) {
	fc := &fakeConn{
		rounds: [][]fakeDatagram{{
			{data: reply("uuid:a", "http://10.0.0.1/d.xml"), src: testSource},
			{data: reply("uuid:b", "http://10.0.0.2/d.xml"), src: testSource},
			{data: reply("uuid:a", "http://10.0.0.1/d.xml"), src: testSource},
			{data: reply("uuid:c", "http://10.0.0.3/d.xml"), src: testSource},
		}},
	}
	s := newTestSession(t, testConfig(), fc, nil)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"uuid:a", "uuid:b", "uuid:c"}
	if result.Len() != len(want) {
		t.Fatalf("Run() returned %d records, want %d", result.Len(), len(want))
	}
	for i, usn := range want {
		if result.Records[i].USN != usn {
			t.Errorf("Records[%d].USN = %q, want %q", i, result.Records[i].USN, usn)
		}
	}
	if !fc.closed {
		t.Error("socket not closed after Run()")
	}
}

func TestSession_Run_RetryRoundsShareDedupState(t *testing.T) {
	cfg := testConfig()
	cfg.Retries = 2
	fc := &fakeConn{
		rounds: [][]fakeDatagram{
			{{data: reply("uuid:a", ""), src: testSource}},
			{{data: reply("uuid:a", ""), src: testSource}}, // repeated across rounds
			{{data: reply("uuid:b", ""), src: testSource}},
		},
	}
	s := newTestSession(t, cfg, fc, nil)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(fc.sends) != 3 {
		t.Errorf("sent %d probes, want 3 (retries+1)", len(fc.sends))
	}
	if result.Len() != 2 {
		t.Errorf("Run() returned %d records, want 2", result.Len())
	}
}

func TestSession_Run_SendFailureDegradesGracefully(t *testing.T) {
	fc := &fakeConn{
		sendErr: errors.New("network is unreachable"),
		rounds: [][]fakeDatagram{{
			{data: reply("uuid:a", ""), src: testSource},
		}},
	}
	s := newTestSession(t, testConfig(), fc, nil)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (send failure is non-fatal)", err)
	}
	if result.Len() != 1 {
		t.Errorf("Run() returned %d records, want 1 from listen after failed send", result.Len())
	}
}

func TestSession_Run_SocketErrorIsFatal(t *testing.T) {
	s, err := NewSession(testConfig())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.dial = func() (conn, net.Addr, error) {
		return nil, nil, NewSocketError("cannot bind UDP socket", errors.New("permission denied"))
	}

	result, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want socket error")
	}
	if !IsSocketError(err) {
		t.Errorf("error = %v, want socket error", err)
	}
	if result != nil {
		t.Errorf("Run() result = %v, want nil", result)
	}
}

func TestSession_Run_MalformedDatagramsDroppedAndCounted(t *testing.T) {
	fc := &fakeConn{
		rounds: [][]fakeDatagram{{
			{data: []byte("garbage"), src: testSource},
			{data: reply("uuid:a", ""), src: testSource},
			{data: reply("", ""), src: testSource}, // no identity headers
		}},
	}
	s := newTestSession(t, testConfig(), fc, nil)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Len() != 1 {
		t.Errorf("Run() returned %d records, want 1", result.Len())
	}
	if result.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", result.Dropped)
	}
}

func TestSession_Run_ListenWindowUsesFullTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWait = 2
	cfg.Timeout = 2 * time.Second

	fc := &fakeConn{}
	s := newTestSession(t, cfg, fc, nil)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(fc.sends) != 1 {
		t.Fatalf("sent %d probes, want 1 (no extra round with Retries=0)", len(fc.sends))
	}
	if len(fc.deadlines) == 0 {
		t.Fatal("no read deadline armed")
	}
	want := sessionEpoch.Add(2 * time.Second)
	for i, d := range fc.deadlines {
		if !d.Equal(want) {
			t.Errorf("deadline[%d] = %v, want %v (full listen window)", i, d, want)
		}
	}
}

func TestSession_Run_ProbeBytesMatchBuilder(t *testing.T) {
	cfg := testConfig()
	cfg.SearchTarget = "urn:schemas-upnp-org:device:MediaRenderer:1"
	fc := &fakeConn{}
	s := newTestSession(t, cfg, fc, nil)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want, err := BuildSearchRequest(cfg.SearchTarget, cfg.MaxWait, false)
	if err != nil {
		t.Fatalf("BuildSearchRequest() error = %v", err)
	}
	if len(fc.sends) != 1 || string(fc.sends[0]) != string(want) {
		t.Errorf("probe bytes = %q, want %q", fc.sends[0], want)
	}
	if addr := fc.sendAddrs[0].String(); addr != "239.255.255.250:1900" {
		t.Errorf("probe sent to %s, want SSDP multicast group", addr)
	}
}

func TestSession_Run_CancelledBetweenRounds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := &fakeConn{
		rounds: [][]fakeDatagram{{
			{data: reply("uuid:a", ""), src: testSource},
		}},
	}
	s := newTestSession(t, testConfig(), fc, nil)

	result, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (cancellation returns partial results)", err)
	}
	if len(fc.sends) != 0 {
		t.Errorf("sent %d probes after cancellation, want 0", len(fc.sends))
	}
	if result.Len() != 0 {
		t.Errorf("Run() returned %d records, want 0", result.Len())
	}
	if !fc.closed {
		t.Error("socket not closed after cancelled Run()")
	}
}

func TestSession_OnRecord_FiresOncePerUniqueService(t *testing.T) {
	fc := &fakeConn{
		rounds: [][]fakeDatagram{{
			{data: reply("uuid:a", ""), src: testSource},
			{data: reply("uuid:a", ""), src: testSource},
			{data: reply("uuid:b", ""), src: testSource},
		}},
	}
	s := newTestSession(t, testConfig(), fc, nil)

	var seen []string
	s.OnRecord(func(rec *ServiceRecord) {
		seen = append(seen, rec.USN)
	})

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"uuid:a", "uuid:b"}
	if len(seen) != len(want) {
		t.Fatalf("callback fired %d times, want %d", len(seen), len(want))
	}
	for i, usn := range want {
		if seen[i] != usn {
			t.Errorf("callback[%d] = %q, want %q", i, seen[i], usn)
		}
	}
}

func TestNewSession_InvalidConfigBeforeSocket(t *testing.T) {
	cfg := testConfig()
	cfg.SearchTarget = ""

	s, err := NewSession(cfg)
	if err == nil {
		t.Fatal("NewSession() error = nil, want configuration error")
	}
	if !IsConfigError(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
	if s != nil {
		t.Errorf("NewSession() = %v, want nil", s)
	}
	// No session means no dial and no socket: the invalid configuration is
	// rejected with zero socket-layer side effects.
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty search target",
			mutate:  func(c *Config) { c.SearchTarget = "" },
			wantErr: true,
		},
		{
			name:    "MX of zero",
			mutate:  func(c *Config) { c.MaxWait = 0 },
			wantErr: true,
		},
		{
			name:    "MX above five",
			mutate:  func(c *Config) { c.MaxWait = 6 },
			wantErr: true,
		},
		{
			name:    "timeout shorter than MX window",
			mutate:  func(c *Config) { c.MaxWait = 3; c.Timeout = 2 * time.Second },
			wantErr: true,
		},
		{
			name:   "timeout equal to MX window",
			mutate: func(c *Config) { c.MaxWait = 3; c.Timeout = 3 * time.Second },
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Retries = -1 },
			wantErr: true,
		},
		{
			name:   "zero retries",
			mutate: func(c *Config) { c.Retries = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsConfigError(err) {
				t.Errorf("error = %v, want configuration error", err)
			}
		})
	}
}
