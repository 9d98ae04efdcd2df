package registry

import (
	"testing"

	"github.com/google/uuid"
)

func TestLookupKnownKeys(t *testing.T) {
	keys := []string{
		"temperature", "humidity", "pressure", "air_quality", "color", "gas_mode",
		"led", "button", "speaker_data", "speaker_status", "microphone",
		"motion_config", "tap", "orientation", "quaternion", "step_counter",
		"raw_motion", "euler", "rotation_matrix", "heading", "gravity",
		"battery_level",
	}
	for _, key := range keys {
		c, err := Lookup(key)
		if err != nil {
			t.Errorf("Lookup(%q): %v", key, err)
			continue
		}
		if c.Key != key {
			t.Errorf("Lookup(%q).Key = %q", key, c.Key)
		}
		if c.UUID == uuid.Nil {
			t.Errorf("Lookup(%q): zero UUID", key)
		}
	}
}

func TestLookupUnknownKey(t *testing.T) {
	if _, err := Lookup("not_a_real_sensor"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvironmentServiceUUIDMatchesConstant(t *testing.T) {
	if EnvironmentServiceUUID().String() != ServiceEnvironment {
		t.Fatalf("EnvironmentServiceUUID() = %s, want %s", EnvironmentServiceUUID(), ServiceEnvironment)
	}
}

func TestAllEntriesBelongToExpectedService(t *testing.T) {
	wantService := map[string]string{
		"temperature": ServiceEnvironment, "humidity": ServiceEnvironment,
		"pressure": ServiceEnvironment, "air_quality": ServiceEnvironment,
		"color": ServiceEnvironment, "gas_mode": ServiceEnvironment,
		"led": ServiceUI, "button": ServiceUI,
		"speaker_data": ServiceSound, "speaker_status": ServiceSound, "microphone": ServiceSound,
		"motion_config": ServiceMotion, "tap": ServiceMotion, "orientation": ServiceMotion,
		"quaternion": ServiceMotion, "step_counter": ServiceMotion, "raw_motion": ServiceMotion,
		"euler": ServiceMotion, "rotation_matrix": ServiceMotion, "heading": ServiceMotion,
		"gravity": ServiceMotion,
		"battery_level": ServiceBattery,
	}
	for key, want := range wantService {
		c, err := Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", key, err)
		}
		if c.Service.String() != want {
			t.Errorf("Lookup(%q).Service = %s, want %s", key, c.Service, want)
		}
	}
}
