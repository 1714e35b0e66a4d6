// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (for example a gogpu.App) owns the device and hands it to the
// renderer. A handle that also exposes HalDevice() and HalQueue() can be
// passed to NewRendererFromProvider.
type DeviceHandle = gpucontext.DeviceProvider

// halProvider is the convention hosts use to expose HAL objects next to
// the gpucontext interfaces.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halFromProvider extracts the HAL device and queue from a provider.
func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("render: provider does not expose HAL types: %w", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("render: provider HalDevice is not hal.Device: %w", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("render: provider HalQueue is not hal.Queue: %w", ErrNoDevice)
	}
	return device, queue, nil
}

// HalHandle adapts a bare HAL device and queue to DeviceHandle. It is what
// headless hosts such as benchmarks and tests hand to the renderer.
type HalHandle struct {
	HAL    hal.Device
	Q      hal.Queue
	Info   gpucontext.AdapterInfo
	Format gputypes.TextureFormat
}

// Device returns the HAL device.
func (h *HalHandle) Device() gpucontext.Device { return h.HAL }

// Queue returns the HAL queue.
func (h *HalHandle) Queue() gpucontext.Queue { return h.Q }

// Adapter returns nil; headless handles do not keep the adapter.
func (h *HalHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the configured target format.
func (h *HalHandle) SurfaceFormat() gputypes.TextureFormat { return h.Format }

// AdapterInfo returns the adapter metadata.
func (h *HalHandle) AdapterInfo() gpucontext.AdapterInfo { return h.Info }

// HalDevice returns the HAL device.
func (h *HalHandle) HalDevice() any { return h.HAL }

// HalQueue returns the HAL queue.
func (h *HalHandle) HalQueue() any { return h.Q }

var _ DeviceHandle = (*HalHandle)(nil)

// AdapterInfoFrom converts HAL adapter metadata.
func AdapterInfoFrom(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
}
