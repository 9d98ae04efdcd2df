// Package blemock is a scripted, in-memory implementation of
// ble.Transport for exercising the Session's state machine and
// concurrency discipline without real BLE hardware. It mirrors the
// hand-written mockAdapter/mockConnection/mockCharacteristic triad
// used to test BLE clients elsewhere in this codebase's lineage.
package blemock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/ble"
)

// Call records one Transport-level operation for ordering assertions.
type Call struct {
	Kind string // "subscribe", "unsubscribe", "read", "write", "connect", "disconnect"
	UUID string
}

// Transport is a scripted mock implementing ble.Transport.
type Transport struct {
	mu sync.Mutex

	ScanResults []ble.DiscoveredPeripheral
	ConnectErr  error

	calls []Call
	link  *Link
}

// New creates an empty mock Transport.
func New() *Transport {
	return &Transport{}
}

func (t *Transport) Scan(_ context.Context, _ time.Duration) ([]ble.DiscoveredPeripheral, error) {
	return t.ScanResults, nil
}

func (t *Transport) Connect(_ context.Context, address string, _ time.Duration) (ble.Link, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(Call{Kind: "connect"})
	if t.ConnectErr != nil {
		return nil, t.ConnectErr
	}
	link := newLink(t, address)
	t.link = link
	return link, nil
}

// Link returns the most recently created Link, for test assertions.
func (t *Transport) Link() *Link {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.link
}

// Calls returns a snapshot of recorded Transport operations, in order.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

func (t *Transport) record(c Call) {
	t.calls = append(t.calls, c)
}

// Link is a scripted active connection.
type Link struct {
	transport *Transport
	address   string

	mu           sync.Mutex
	chars        map[string]*Characteristic // keyed by characteristic UUID string
	linkLossCb   func()
	disconnected bool
}

func newLink(t *Transport, address string) *Link {
	return &Link{
		transport: t,
		address:   address,
		chars:     make(map[string]*Characteristic),
	}
}

func (l *Link) Characteristic(_ uuid.UUID, char uuid.UUID) (ble.Characteristic, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := char.String()
	c, ok := l.chars[key]
	if !ok {
		c = &Characteristic{transport: l.transport, uuid: key}
		l.chars[key] = c
	}
	return c, nil
}

// Char returns (creating if absent) the mock characteristic for uuid,
// so a test can script its Read payload or simulate a notification.
func (l *Link) Char(u string) *Characteristic {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.chars[u]
	if !ok {
		c = &Characteristic{transport: l.transport, uuid: u}
		l.chars[u] = c
	}
	return c
}

func (l *Link) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnected = true
	l.transport.record(Call{Kind: "disconnect"})
	return nil
}

func (l *Link) OnLinkLoss(callback func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.linkLossCb = callback
}

// SimulateLinkLoss fires the registered link-loss callback, as an
// asynchronous disconnect event from the platform BLE stack would.
func (l *Link) SimulateLinkLoss() {
	l.mu.Lock()
	cb := l.linkLossCb
	l.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Characteristic is a scripted GATT characteristic.
type Characteristic struct {
	transport *Transport
	uuid      string

	mu            sync.Mutex
	readPayload   []byte
	readErr       error
	writes        [][]byte
	notifyCb      func([]byte)
	subscribeHold time.Duration // optional sleep inside Subscribe, after the callback is installed
}

// SetReadPayload scripts the response to a direct Read.
func (c *Characteristic) SetReadPayload(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readPayload = b
	c.readErr = nil
}

// SetReadError scripts Read to fail, e.g. with ble.ErrNotPermitted.
func (c *Characteristic) SetReadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// SetNotifyDelay makes Subscribe sleep for d before returning. The
// callback is installed before the sleep, so a Notify during it is
// still delivered.
func (c *Characteristic) SetNotifyDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribeHold = d
}

// Writes returns every payload written to this characteristic, in order.
func (c *Characteristic) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

// Notify delivers a notification to the current subscriber, if any.
func (c *Characteristic) Notify(payload []byte) {
	c.mu.Lock()
	cb := c.notifyCb
	c.mu.Unlock()
	if cb != nil {
		cb(payload)
	}
}

func (c *Characteristic) Read() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport.record(Call{Kind: "read", UUID: c.uuid})
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.readPayload, nil
}

func (c *Characteristic) Write(data []byte, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := append([]byte{}, data...)
	c.writes = append(c.writes, cp)
	c.transport.record(Call{Kind: "write", UUID: c.uuid})
	return nil
}

func (c *Characteristic) Subscribe(callback func([]byte)) (ble.Subscription, error) {
	c.mu.Lock()
	c.notifyCb = callback
	hold := c.subscribeHold
	c.mu.Unlock()
	c.transport.record(Call{Kind: "subscribe", UUID: c.uuid})
	if hold > 0 {
		time.Sleep(hold)
	}
	return &subscription{char: c}, nil
}

type subscription struct {
	char *Characteristic
	mu   sync.Mutex
	done bool
}

func (s *subscription) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	s.char.mu.Lock()
	s.char.notifyCb = nil
	s.char.mu.Unlock()
	s.char.transport.record(Call{Kind: "unsubscribe", UUID: s.char.uuid})
	return nil
}

// Compile-time interface checks.
var (
	_ ble.Transport      = (*Transport)(nil)
	_ ble.Link           = (*Link)(nil)
	_ ble.Characteristic = (*Characteristic)(nil)
	_ ble.Subscription   = (*subscription)(nil)
)
