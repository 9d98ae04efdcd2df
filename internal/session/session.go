// Package session implements the Session component: the connection
// lifecycle state machine, operation serialization, and the
// notification-based read pattern required by the Thingy:52 firmware.
// It owns the single active BLE link for the process.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/ble"
)

type linkState int

const (
	stateDisconnected linkState = iota
	stateConnecting
	stateConnected
	stateDisconnecting
)

// Options configures Session timeouts and the motion-configuration
// policy.
type Options struct {
	// NotifyTimeout bounds how long a notification-based read waits for
	// the first matching notification. Default 5s.
	NotifyTimeout time.Duration
	// RetryDelay is the pause before the single internal retry of a
	// notification-based read that timed out. Default 500ms. Direct
	// reads and actuator writes are not retried.
	RetryDelay time.Duration
	// DefaultMotionFrequencyHz configures the fusion-engine update rate
	// used by auto-configure-on-first-use.
	DefaultMotionFrequencyHz int
}

func (o *Options) setDefaults() {
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 5 * time.Second
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
	if o.DefaultMotionFrequencyHz <= 0 {
		o.DefaultMotionFrequencyHz = 10
	}
}

// Session owns the single active BLE peripheral link and serializes
// every operation against it through opLock.
type Session struct {
	transport ble.Transport
	opts      Options

	opLock sync.Mutex

	stateMu               sync.Mutex
	state                 linkState
	link                  ble.Link
	address               string
	name                  string
	motionConfigured      bool
	environmentConfigured bool
	linkLossCh            chan struct{}

	waitersMu sync.Mutex
	waiters   map[string]*waiter

	scanNamesMu sync.Mutex
	scanNames   map[string]string // address -> name, populated by Scan
}

type waiter struct {
	payload chan []byte
}

// New creates a Session bound to the given Transport. The Session
// starts Disconnected.
func New(transport ble.Transport, opts Options) *Session {
	opts.setDefaults()
	return &Session{
		transport: transport,
		opts:      opts,
		waiters:   make(map[string]*waiter),
		scanNames: make(map[string]string),
	}
}

// Scan discovers nearby Thingy:52 peripherals. Scanning does not
// require the Session to be Connected or Disconnected; it never
// touches the active link.
func (s *Session) Scan(ctx context.Context, timeout time.Duration) ([]ble.DiscoveredPeripheral, error) {
	peripherals, err := s.transport.Scan(ctx, timeout)
	if err != nil {
		return nil, newErr(KindAdapterBusy, "scan: %v", err)
	}

	s.scanNamesMu.Lock()
	for _, p := range peripherals {
		s.scanNames[p.Address] = p.Name
	}
	s.scanNamesMu.Unlock()

	return peripherals, nil
}

// Connect transitions Disconnected -> Connecting -> Connected. A
// concurrent connect attempt while already Connecting/Connected is
// rejected with BusyError.
func (s *Session) Connect(ctx context.Context, address string, timeout time.Duration) (name string, err error) {
	s.stateMu.Lock()
	if s.state != stateDisconnected {
		s.stateMu.Unlock()
		return "", newErr(KindBusyError, "connect while %s", s.state)
	}
	s.state = stateConnecting
	s.stateMu.Unlock()

	s.opLock.Lock()
	defer s.opLock.Unlock()

	link, connErr := s.transport.Connect(ctx, address, timeout)

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if connErr != nil {
		s.state = stateDisconnected
		if ctx.Err() != nil {
			return "", newErr(KindTimeout, "connect to %s: %v", address, connErr)
		}
		return "", newErr(KindNotFound, "connect to %s: %v", address, connErr)
	}

	s.scanNamesMu.Lock()
	cachedName := s.scanNames[address]
	s.scanNamesMu.Unlock()

	s.link = link
	s.address = address
	s.name = cachedName
	s.motionConfigured = false
	s.environmentConfigured = false
	s.linkLossCh = make(chan struct{})
	s.state = stateConnected

	lossCh := s.linkLossCh
	link.OnLinkLoss(func() { s.handleLinkLoss(lossCh) })

	return s.name, nil
}

// Disconnect explicitly tears down the active link. Idempotent: a call
// while already Disconnected succeeds without touching Transport.
func (s *Session) Disconnect(ctx context.Context) error {
	s.stateMu.Lock()
	if s.state == stateDisconnected {
		s.stateMu.Unlock()
		return nil
	}
	link := s.link
	s.state = stateDisconnecting
	s.stateMu.Unlock()

	s.opLock.Lock()
	defer s.opLock.Unlock()

	if link != nil {
		_ = link.Disconnect()
	}

	s.stateMu.Lock()
	s.state = stateDisconnected
	s.link = nil
	s.address = ""
	s.name = ""
	s.motionConfigured = false
	s.environmentConfigured = false
	s.stateMu.Unlock()

	s.failAllWaiters()
	return nil
}

// Status reports whether the Session is Connected and, if so, which
// peripheral it is bound to.
func (s *Session) Status() (connected bool, address, name string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state == stateConnected, s.address, s.name
}

// requireConnected returns the active link, or NotConnected if the
// Session is not Connected. Callers must not hold stateMu.
func (s *Session) requireConnected() (ble.Link, chan struct{}, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state != stateConnected {
		return nil, nil, newErr(KindNotConnected, "no active connection")
	}
	return s.link, s.linkLossCh, nil
}

func (s *Session) handleLinkLoss(generation chan struct{}) {
	s.stateMu.Lock()
	if s.linkLossCh != generation {
		// Stale callback from a since-replaced link; ignore.
		s.stateMu.Unlock()
		return
	}
	s.state = stateDisconnected
	s.link = nil
	s.address = ""
	s.name = ""
	s.motionConfigured = false
	s.environmentConfigured = false
	s.stateMu.Unlock()

	close(generation)
	s.failAllWaiters()
}

func (s *Session) failAllWaiters() {
	s.waitersMu.Lock()
	defer s.waitersMu.Unlock()
	for uuid, w := range s.waiters {
		close(w.payload)
		delete(s.waiters, uuid)
	}
}

func (st linkState) String() string {
	switch st {
	case stateDisconnected:
		return "Disconnected"
	case stateConnecting:
		return "Connecting"
	case stateConnected:
		return "Connected"
	case stateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("linkState(%d)", int(st))
	}
}
