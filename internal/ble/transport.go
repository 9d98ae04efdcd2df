// Package ble is the thin Transport layer between the Session and the
// platform BLE stack. It performs no mutual exclusion and no protocol
// decoding — that is Session's and codec's job respectively.
package ble

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DiscoveredPeripheral is one scan result.
type DiscoveredPeripheral struct {
	Address string
	Name    string
	RSSI    int
}

// Characteristic is a single GATT characteristic reachable over an
// active Link.
type Characteristic interface {
	// Read performs a direct GATT read. Returns ErrNotPermitted if the
	// characteristic does not support direct reads.
	Read() ([]byte, error)
	// Write sends data to the characteristic.
	Write(data []byte, withResponse bool) error
	// Subscribe registers a callback invoked on every notification
	// until Unsubscribe is called. Returns a subscription handle.
	Subscribe(callback func(data []byte)) (Subscription, error)
}

// Subscription is a live notification registration on one characteristic.
type Subscription interface {
	// Unsubscribe stops delivery. Idempotent.
	Unsubscribe() error
}

// Link is an active connection to one peripheral.
type Link interface {
	// Characteristic resolves a characteristic by service/characteristic UUID.
	Characteristic(service, char uuid.UUID) (Characteristic, error)
	// Disconnect terminates the connection. Idempotent.
	Disconnect() error
	// OnLinkLoss registers a callback invoked once if the link drops
	// asynchronously (not via an explicit Disconnect call).
	OnLinkLoss(callback func())
}

// Transport abstracts the platform BLE stack.
type Transport interface {
	// Scan discovers peripherals for up to timeout, filtered to those
	// advertising a name containing "Thingy" or the Environment Service UUID.
	Scan(ctx context.Context, timeout time.Duration) ([]DiscoveredPeripheral, error)
	// Connect establishes a link to address, performing service discovery
	// before returning.
	Connect(ctx context.Context, address string, timeout time.Duration) (Link, error)
}

// ErrNotPermitted is returned by Characteristic.Read when the firmware
// rejects a direct read; the caller must fall back to notification-based
// reads.
var ErrNotPermitted = &notPermittedError{}

type notPermittedError struct{}

func (*notPermittedError) Error() string { return "ble: characteristic does not permit direct read" }
