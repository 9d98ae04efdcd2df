package session

import (
	"context"
	"time"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/ble"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/registry"
)

// notifyRead implements the composite subscribe -> wait-for-notification
// -> unsubscribe pattern. It acquires opLock for its entire duration,
// including the wait.
func (s *Session) notifyRead(ctx context.Context, key string) ([]byte, error) {
	s.opLock.Lock()
	defer s.opLock.Unlock()
	return s.notifyReadLocked(ctx, key)
}

// notifyReadLocked is notifyRead's body. The caller must hold opLock.
func (s *Session) notifyReadLocked(ctx context.Context, key string) ([]byte, error) {
	char, err := registry.Lookup(key)
	if err != nil {
		return nil, newErr(KindInvalidArgument, "%v", err)
	}

	link, lossCh, err := s.requireConnected()
	if err != nil {
		return nil, err
	}

	s.waitersMu.Lock()
	if _, exists := s.waiters[key]; exists {
		s.waitersMu.Unlock()
		return nil, newErr(KindBusyError, "notification read already in flight for %s", key)
	}
	w := &waiter{payload: make(chan []byte, 1)}
	s.waiters[key] = w
	s.waitersMu.Unlock()

	cleanup := func() {
		s.waitersMu.Lock()
		delete(s.waiters, key)
		s.waitersMu.Unlock()
	}

	gattChar, err := link.Characteristic(char.Service, char.UUID)
	if err != nil {
		cleanup()
		return nil, newErr(KindNotFound, "%v", err)
	}

	sub, err := gattChar.Subscribe(func(data []byte) {
		select {
		case w.payload <- data:
		default:
		}
	})
	if err != nil {
		cleanup()
		return nil, newErr(KindNotPermitted, "subscribe %s: %v", key, err)
	}

	payload, waitErr := s.waitForPayload(ctx, w, lossCh, s.opts.NotifyTimeout)

	_ = sub.Unsubscribe()
	cleanup()

	return payload, waitErr
}

func (s *Session) waitForPayload(ctx context.Context, w *waiter, lossCh chan struct{}, timeout time.Duration) ([]byte, error) {
	select {
	case data, ok := <-w.payload:
		if !ok {
			return nil, newErr(KindLinkLost, "link lost during notification read")
		}
		return data, nil
	case <-lossCh:
		return nil, newErr(KindLinkLost, "link lost during notification read")
	case <-ctx.Done():
		return nil, newErr(KindTimeout, "%v", ctx.Err())
	case <-time.After(timeout):
		return nil, newErr(KindTimeout, "no notification within %s", timeout)
	}
}

// notifyReadWithRetry performs one notifyRead attempt; on Timeout it
// retries once after RetryDelay.
func (s *Session) notifyReadWithRetry(ctx context.Context, key string) ([]byte, error) {
	data, err := s.notifyRead(ctx, key)
	if err == nil {
		return data, nil
	}
	if sessErr, ok := err.(*Error); ok && sessErr.Kind == KindTimeout {
		time.Sleep(s.opts.RetryDelay)
		return s.notifyRead(ctx, key)
	}
	return nil, err
}

// directRead attempts a direct GATT read, translating ble.ErrNotPermitted
// into a typed NotPermitted error so callers can fall back to notifyRead.
func (s *Session) directRead(key string) ([]byte, error) {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	char, err := registry.Lookup(key)
	if err != nil {
		return nil, newErr(KindInvalidArgument, "%v", err)
	}
	link, _, err := s.requireConnected()
	if err != nil {
		return nil, err
	}
	gattChar, err := link.Characteristic(char.Service, char.UUID)
	if err != nil {
		return nil, newErr(KindNotFound, "%v", err)
	}
	data, readErr := gattChar.Read()
	if readErr == ble.ErrNotPermitted {
		return nil, newErr(KindNotPermitted, "direct read of %s not permitted", key)
	}
	if readErr != nil {
		return nil, newErr(KindTimeout, "%v", readErr)
	}
	return data, nil
}

// readSensor applies the per-characteristic read policy: characteristics
// marked DirectReadable are read directly; all others use the
// notification-based composite read.
func (s *Session) readSensor(ctx context.Context, key string) ([]byte, error) {
	char, err := registry.Lookup(key)
	if err != nil {
		return nil, newErr(KindInvalidArgument, "%v", err)
	}
	if char.ReadPolicy == registry.DirectReadable {
		data, err := s.directRead(key)
		if err == nil {
			return data, nil
		}
		if sessErr, ok := err.(*Error); !ok || sessErr.Kind != KindNotPermitted {
			return nil, err
		}
		// Firmware refused the direct read despite the registry's policy;
		// fall back to notify-read.
	}
	return s.notifyReadWithRetry(ctx, key)
}
