package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minBufferSize is the smallest allocation a Buffer makes.
const minBufferSize = 256

// Buffer is a GPU buffer that is recreated with a larger capacity when a
// write does not fit. Capacity grows to the next power of two so a chunk
// that gains a few tiles per frame does not reallocate every frame.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	device hal.Device
	queue  hal.Queue
	mem    *Memory
	label  string
	usage  gputypes.BufferUsage

	raw      hal.Buffer
	capacity uint64
	size     uint64
}

// NewBuffer returns an empty buffer. Nothing is allocated until the first
// Write. mem may be nil.
func NewBuffer(device hal.Device, queue hal.Queue, mem *Memory, label string, usage gputypes.BufferUsage) *Buffer {
	return &Buffer{
		device: device,
		queue:  queue,
		mem:    mem,
		label:  label,
		usage:  usage | gputypes.BufferUsageCopyDst,
	}
}

// Write replaces the buffer contents with data, growing the allocation if
// needed. Writing no bytes keeps the allocation and sets Size to zero.
func (b *Buffer) Write(data []byte) error {
	n := uint64(len(data))
	if n == 0 {
		b.size = 0
		return nil
	}
	if err := b.reserve(n); err != nil {
		return err
	}
	if err := b.queue.WriteBuffer(b.raw, 0, data); err != nil {
		return fmt.Errorf("write %s: %w", b.label, err)
	}
	b.size = n
	return nil
}

func (b *Buffer) reserve(n uint64) error {
	if b.raw != nil && n <= b.capacity {
		return nil
	}
	capacity := max(uint64(minBufferSize), b.capacity)
	for capacity < n {
		capacity *= 2
	}
	if b.mem != nil {
		if err := b.mem.Reserve(KindBuffer, capacity); err != nil {
			return fmt.Errorf("grow %s: %w", b.label, err)
		}
	}
	raw, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  capacity,
		Usage: b.usage,
	})
	if err != nil {
		if b.mem != nil {
			b.mem.Release(KindBuffer, capacity)
		}
		return fmt.Errorf("create %s: %w", b.label, err)
	}
	b.Destroy()
	b.raw = raw
	b.capacity = capacity
	return nil
}

// Raw returns the underlying buffer, or nil before the first write.
func (b *Buffer) Raw() hal.Buffer { return b.raw }

// Size returns the number of bytes written by the last Write.
func (b *Buffer) Size() uint64 { return b.size }

// Capacity returns the allocated size in bytes.
func (b *Buffer) Capacity() uint64 { return b.capacity }

// Destroy releases the allocation. The Buffer may be written again.
func (b *Buffer) Destroy() {
	if b.raw == nil {
		return
	}
	b.device.DestroyBuffer(b.raw)
	if b.mem != nil {
		b.mem.Release(KindBuffer, b.capacity)
	}
	b.raw = nil
	b.capacity = 0
	b.size = 0
}
