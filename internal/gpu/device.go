package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// ErrNoAdapter is returned when a backend exposes no adapter.
var ErrNoAdapter = errors.New("gpu: backend exposes no adapter")

// Device is an opened HAL device together with the instance it came from.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Info   gputypes.AdapterInfo

	instance hal.Instance
}

// OpenNoop opens a device on the noop backend. It never touches real
// hardware and is used by tests and dry runs.
func OpenNoop() (*Device, error) {
	return open(noop.API{})
}

// Open opens the first adapter of a registered backend. Backends register
// themselves when their package is imported.
func Open(variant gputypes.Backend) (*Device, error) {
	if variant == gputypes.BackendEmpty {
		return OpenNoop()
	}
	b, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("gpu: backend %v not registered", variant)
	}
	return open(b)
}

func open(b hal.Backend) (*Device, error) {
	instance, err := b.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	od, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open adapter: %w", err)
	}
	return &Device{
		Device:   od.Device,
		Queue:    od.Queue,
		Info:     adapters[0].Info,
		instance: instance,
	}, nil
}

// Close waits for the device to go idle and releases it.
func (d *Device) Close() {
	if d.Device != nil {
		_ = d.Device.WaitIdle()
		d.Device.Destroy()
		d.Device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
