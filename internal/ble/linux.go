package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"
)

// LinuxTransport wraps tinygo.org/x/bluetooth's default adapter
// (BlueZ on Linux) as a Transport.
type LinuxTransport struct {
	adapter *bluetooth.Adapter

	mu    sync.Mutex
	links map[string]*linuxLink // keyed by address
}

// NewLinuxTransport creates a Transport backed by the host's default
// BLE adapter. The adapter is enabled before this returns.
func NewLinuxTransport() (*LinuxTransport, error) {
	t := &LinuxTransport{
		adapter: bluetooth.DefaultAdapter,
		links:   make(map[string]*linuxLink),
	}
	if err := t.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}
	t.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		addr := device.Address.String()
		t.mu.Lock()
		link, ok := t.links[addr]
		t.mu.Unlock()
		if ok {
			link.fireLinkLoss()
		}
	})
	return t, nil
}

func (t *LinuxTransport) Scan(ctx context.Context, timeout time.Duration) ([]DiscoveredPeripheral, error) {
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	envUUID, err := bluetooth.ParseUUID(environmentServiceUUIDString)
	if err != nil {
		return nil, fmt.Errorf("ble: parse environment service uuid: %w", err)
	}

	var mu sync.Mutex
	var out []DiscoveredPeripheral
	seen := make(map[string]bool)

	done := make(chan struct{})
	go func() {
		select {
		case <-scanCtx.Done():
			t.adapter.StopScan()
		case <-done:
		}
	}()

	err = t.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		name := result.LocalName()
		matches := strings.Contains(name, "Thingy") || result.HasServiceUUID(envUUID)
		if !matches {
			return
		}
		addr := result.Address.String()
		mu.Lock()
		defer mu.Unlock()
		if seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, DiscoveredPeripheral{
			Address: addr,
			Name:    name,
			RSSI:    int(result.RSSI),
		})
	})
	close(done)

	if err != nil && scanCtx.Err() == nil {
		return nil, fmt.Errorf("ble: scan: %w", err)
	}
	return out, nil
}

func (t *LinuxTransport) Connect(ctx context.Context, address string, timeout time.Duration) (Link, error) {
	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var addr bluetooth.Address
	addr.Set(address)

	type result struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		device, err := t.adapter.Connect(addr, bluetooth.ConnectionParams{})
		ch <- result{device, err}
	}()

	select {
	case <-connCtx.Done():
		return nil, fmt.Errorf("ble: connect to %s: %w", address, connCtx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("ble: connect to %s: %w", address, r.err)
		}
		if _, err := r.device.DiscoverServices(nil); err != nil {
			_ = r.device.Disconnect()
			return nil, fmt.Errorf("ble: discover services on %s: %w", address, err)
		}
		link := &linuxLink{device: &r.device, address: address}
		t.mu.Lock()
		t.links[address] = link
		t.mu.Unlock()
		return link, nil
	}
}

const environmentServiceUUIDString = "ef680200-9b35-4933-9b10-52ffa9740042"

// Compile-time check that LinuxTransport implements Transport.
var _ Transport = (*LinuxTransport)(nil)

type linuxLink struct {
	device  *bluetooth.Device
	address string

	mu         sync.Mutex
	linkLossCb func()
	lossFired  bool
}

func (l *linuxLink) fireLinkLoss() {
	l.mu.Lock()
	cb := l.linkLossCb
	already := l.lossFired
	l.lossFired = true
	l.mu.Unlock()
	if cb != nil && !already {
		cb()
	}
}

func (l *linuxLink) Characteristic(service, char uuid.UUID) (Characteristic, error) {
	svcUUID, err := bluetooth.ParseUUID(service.String())
	if err != nil {
		return nil, fmt.Errorf("ble: parse service uuid: %w", err)
	}
	charUUID, err := bluetooth.ParseUUID(char.String())
	if err != nil {
		return nil, fmt.Errorf("ble: parse characteristic uuid: %w", err)
	}

	svcs, err := l.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("ble: service %s not found", service)
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil {
		return nil, fmt.Errorf("ble: discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("ble: characteristic %s not found", char)
	}

	return &linuxCharacteristic{char: &chars[0]}, nil
}

func (l *linuxLink) Disconnect() error {
	return l.device.Disconnect()
}

func (l *linuxLink) OnLinkLoss(callback func()) {
	l.mu.Lock()
	l.linkLossCb = callback
	l.mu.Unlock()
}

type linuxCharacteristic struct {
	char *bluetooth.DeviceCharacteristic
}

func (c *linuxCharacteristic) Read() ([]byte, error) {
	buf := make([]byte, 512)
	n, err := c.char.Read(buf)
	if err != nil {
		return nil, ErrNotPermitted
	}
	return buf[:n], nil
}

func (c *linuxCharacteristic) Write(data []byte, withResponse bool) error {
	var err error
	if withResponse {
		_, err = c.char.Write(data)
	} else {
		_, err = c.char.WriteWithoutResponse(data)
	}
	return err
}

func (c *linuxCharacteristic) Subscribe(callback func(data []byte)) (Subscription, error) {
	char := c.char
	if err := char.EnableNotifications(func(buf []byte) {
		callback(buf)
	}); err != nil {
		return nil, fmt.Errorf("ble: enable notifications: %w", err)
	}
	return &linuxSubscription{char: char}, nil
}

type linuxSubscription struct {
	char *bluetooth.DeviceCharacteristic
	mu   sync.Mutex
	done bool
}

func (s *linuxSubscription) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	return s.char.EnableNotifications(nil)
}
