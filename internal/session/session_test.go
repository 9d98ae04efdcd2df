package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/ble/blemock"
)

// Property 1 — every operation except Scan requires Connected.
func TestRequiresConnectedBeforeConnect(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)

	_, err := s.ReadTemperature(context.Background())
	require.Error(t, err)
	sessErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindNotConnected, sessErr.Kind)
}

// Property 2 — a second Connect while Connecting/Connected is rejected
// with BusyError and never touches the existing link.
func TestConcurrentConnectRejectedWithBusyError(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)

	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	_, err = s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.Error(t, err)
	sessErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindBusyError, sessErr.Kind)
}

// Property 3 — Disconnect is idempotent.
func TestDisconnectIdempotent(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	require.NoError(t, s.Disconnect(context.Background()))
	require.NoError(t, s.Disconnect(context.Background()))

	connected, address, name := s.Status()
	require.False(t, connected)
	require.Empty(t, address)
	require.Empty(t, name)
}

// Property 4 — after Disconnect, a Session can Connect again.
func TestReconnectAfterDisconnect(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Disconnect(context.Background()))

	_, err = s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	connected, _, _ := s.Status()
	require.True(t, connected)
}

// Property 5 — Connect failure leaves the Session Disconnected, not
// stuck Connecting.
func TestConnectFailureReturnsToDisconnected(t *testing.T) {
	mock := blemock.New()
	mock.ConnectErr = context.DeadlineExceeded
	s := newTestSession(mock)

	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.Error(t, err)

	connected, _, _ := s.Status()
	require.False(t, connected)

	// A Session that failed to connect is not stuck Connecting: a
	// fresh Connect attempt is accepted, not rejected with BusyError.
	mock.ConnectErr = nil
	_, err = s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)
}

// Property 6 — a notification read that times out surfaces Timeout,
// not a generic error, and cleans up its subscription.
func TestNotifyReadTimeoutUnsubscribes(t *testing.T) {
	mock := blemock.New()
	s := New(mock, Options{NotifyTimeout: 30 * time.Millisecond, RetryDelay: 5 * time.Millisecond})
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	// No Notify is ever delivered; both the initial attempt and the
	// single retry should time out.
	_, err = s.ReadHumidity(context.Background())
	require.Error(t, err)
	sessErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindTimeout, sessErr.Kind)

	calls := mock.Calls()
	subscribes, unsubscribes := 0, 0
	for _, c := range calls {
		switch c.Kind {
		case "subscribe":
			subscribes++
		case "unsubscribe":
			unsubscribes++
		}
	}
	require.Equal(t, subscribes, unsubscribes)
	require.Equal(t, 2, subscribes) // one retry after the first timeout
}

// Property 7 — DirectReadable characteristics are read without
// subscribing at all.
func TestDirectReadableSkipsSubscription(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	battChar := mock.Link().Char("00002a19-0000-1000-8000-00805f9b34fb")
	battChar.SetReadPayload([]byte{77})

	level, err := s.ReadBattery(context.Background())
	require.NoError(t, err)
	require.Equal(t, 77, level)

	for _, c := range mock.Calls() {
		require.NotEqual(t, "subscribe", c.Kind)
	}
}

// Property 8 — motion fusion auto-configures exactly once across
// multiple motion reads.
func TestMotionAutoConfiguresOnce(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	quatChar := mock.Link().Char("ef680404-9b35-4933-9b10-52ffa9740042")
	quatChar.SetReadPayload(make([]byte, 16))

	_, err = s.ReadQuaternion(context.Background())
	require.NoError(t, err)
	_, err = s.ReadQuaternion(context.Background())
	require.NoError(t, err)

	configChar := mock.Link().Char("ef680401-9b35-4933-9b10-52ffa9740042")
	require.Len(t, configChar.Writes(), 1)
}

// Property 9 — every completed subscribe is paired with exactly one
// unsubscribe, even across many sequential reads.
func TestSubscribeUnsubscribePairing(t *testing.T) {
	mock := blemock.New()
	s := newTestSession(mock)
	_, err := s.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", time.Second)
	require.NoError(t, err)

	link := mock.Link()
	go deliverAfterSubscribe(link, "ef680201-9b35-4933-9b10-52ffa9740042", []byte{0x17, 0x32})
	_, err = s.ReadTemperature(context.Background())
	require.NoError(t, err)

	go deliverAfterSubscribe(link, "ef680203-9b35-4933-9b10-52ffa9740042", []byte{0x32})
	_, err = s.ReadHumidity(context.Background())
	require.NoError(t, err)

	subscribes, unsubscribes := 0, 0
	for _, c := range mock.Calls() {
		switch c.Kind {
		case "subscribe":
			subscribes++
		case "unsubscribe":
			unsubscribes++
		}
	}
	require.Equal(t, 2, subscribes)
	require.Equal(t, 2, unsubscribes)
}
