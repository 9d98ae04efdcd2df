// Package registry is the static table mapping symbolic Thingy:52
// sensor and actuator names to their BLE service and characteristic
// UUIDs. It performs no I/O.
package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// Thingy:52 vendor services follow the form EF68ZZZZ-9B35-4933-9B10-52FFA9740042.
const (
	ServiceEnvironment = "ef680200-9b35-4933-9b10-52ffa9740042"
	ServiceMotion      = "ef680400-9b35-4933-9b10-52ffa9740042"
	ServiceUI          = "ef680300-9b35-4933-9b10-52ffa9740042"
	ServiceSound       = "ef680500-9b35-4933-9b10-52ffa9740042"
	ServiceBattery     = "0000180f-0000-1000-8000-00805f9b34fb"
)

// ReadPolicy tells Session whether a characteristic can be read
// directly or must be sampled via the notification-based read pattern.
type ReadPolicy int

const (
	// NotifyOnly characteristics reject direct reads on this firmware;
	// the Session must subscribe, wait for one notification, unsubscribe.
	NotifyOnly ReadPolicy = iota
	// DirectReadable characteristics permit GATT read requests.
	DirectReadable
)

// Characteristic describes one named Thingy:52 GATT characteristic.
type Characteristic struct {
	Key        string
	Service    uuid.UUID
	UUID       uuid.UUID
	ReadPolicy ReadPolicy
}

var table = buildTable()

func entry(key, service, char string, policy ReadPolicy) Characteristic {
	return Characteristic{
		Key:        key,
		Service:    uuid.MustParse(service),
		UUID:       uuid.MustParse(char),
		ReadPolicy: policy,
	}
}

func buildTable() map[string]Characteristic {
	m := map[string]Characteristic{}
	add := func(c Characteristic) { m[c.Key] = c }

	add(entry("temperature", ServiceEnvironment, "ef680201-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("humidity", ServiceEnvironment, "ef680203-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("pressure", ServiceEnvironment, "ef680202-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("air_quality", ServiceEnvironment, "ef680204-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("color", ServiceEnvironment, "ef680205-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("gas_mode", ServiceEnvironment, "ef680206-9b35-4933-9b10-52ffa9740042", DirectReadable))

	add(entry("led", ServiceUI, "ef680301-9b35-4933-9b10-52ffa9740042", DirectReadable))
	add(entry("button", ServiceUI, "ef680302-9b35-4933-9b10-52ffa9740042", NotifyOnly))

	add(entry("speaker_data", ServiceSound, "ef680502-9b35-4933-9b10-52ffa9740042", DirectReadable))
	add(entry("speaker_status", ServiceSound, "ef680503-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("microphone", ServiceSound, "ef680504-9b35-4933-9b10-52ffa9740042", NotifyOnly))

	add(entry("motion_config", ServiceMotion, "ef680401-9b35-4933-9b10-52ffa9740042", DirectReadable))
	add(entry("tap", ServiceMotion, "ef680402-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("orientation", ServiceMotion, "ef680403-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("quaternion", ServiceMotion, "ef680404-9b35-4933-9b10-52ffa9740042", DirectReadable))
	add(entry("step_counter", ServiceMotion, "ef680405-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("raw_motion", ServiceMotion, "ef680406-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("euler", ServiceMotion, "ef680407-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("rotation_matrix", ServiceMotion, "ef680408-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("heading", ServiceMotion, "ef680409-9b35-4933-9b10-52ffa9740042", NotifyOnly))
	add(entry("gravity", ServiceMotion, "ef68040a-9b35-4933-9b10-52ffa9740042", NotifyOnly))

	add(entry("battery_level", ServiceBattery, "00002a19-0000-1000-8000-00805f9b34fb", DirectReadable))

	return m
}

// Lookup returns the characteristic entry for a symbolic key.
func Lookup(key string) (Characteristic, error) {
	c, ok := table[key]
	if !ok {
		return Characteristic{}, fmt.Errorf("registry: unknown characteristic key %q", key)
	}
	return c, nil
}

// EnvironmentServiceUUID returns the Environment Service UUID as a
// typed uuid.UUID. The Linux Transport's scan filter matches the same
// service through its own string constant in internal/ble.
func EnvironmentServiceUUID() uuid.UUID {
	return uuid.MustParse(ServiceEnvironment)
}
