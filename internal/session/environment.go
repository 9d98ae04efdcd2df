package session

import (
	"context"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/thingy/registry"
)

// gasModeDefault selects the CCS811's default (as opposed to
// low-power/interrupt-driven) sampling mode.
const gasModeDefault = 1

// ConfigureEnvironment writes the gas sensor's sampling mode.
// Idempotent: repeated calls simply rewrite the same characteristic.
func (s *Session) ConfigureEnvironment(ctx context.Context, gasMode int) error {
	s.opLock.Lock()
	defer s.opLock.Unlock()
	return s.configureEnvironmentLocked(ctx, gasMode)
}

func (s *Session) configureEnvironmentLocked(ctx context.Context, gasMode int) error {
	char, err := registry.Lookup("gas_mode")
	if err != nil {
		return newErr(KindInvalidArgument, "%v", err)
	}
	link, _, err := s.requireConnected()
	if err != nil {
		return err
	}
	gattChar, err := link.Characteristic(char.Service, char.UUID)
	if err != nil {
		return newErr(KindNotFound, "%v", err)
	}
	if err := gattChar.Write([]byte{byte(gasMode)}, false); err != nil {
		return newErr(KindTimeout, "configure_environment: %v", err)
	}

	s.stateMu.Lock()
	s.environmentConfigured = true
	s.stateMu.Unlock()

	return nil
}

// ensureEnvironmentConfigured implements the auto-configure-on-first-use
// policy: the first air quality read transparently sets the gas
// sensor's mode before sampling, since the CCS811 produces no usable
// output until its mode is set.
func (s *Session) ensureEnvironmentConfigured(ctx context.Context) error {
	s.stateMu.Lock()
	configured := s.environmentConfigured
	s.stateMu.Unlock()
	if configured {
		return nil
	}

	s.opLock.Lock()
	defer s.opLock.Unlock()

	s.stateMu.Lock()
	configured = s.environmentConfigured
	s.stateMu.Unlock()
	if configured {
		return nil
	}

	return s.configureEnvironmentLocked(ctx, gasModeDefault)
}
