package gpu

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMemoryBudgetExceeded is returned when an allocation would exceed the
// configured budget.
var ErrMemoryBudgetExceeded = errors.New("gpu: memory budget exceeded")

// DefaultMaxMemoryMB is the default budget (256 MB).
const DefaultMaxMemoryMB = 256

// Kind classifies a tracked allocation.
type Kind uint8

const (
	KindBuffer Kind = iota
	KindTexture
)

// MemoryStats is a snapshot of a Memory budget.
type MemoryStats struct {
	TotalBytes   uint64
	UsedBytes    uint64
	BufferBytes  uint64
	TextureBytes uint64
	Buffers      int
	Textures     int
	Rejected     uint64
}

// Utilization returns UsedBytes / TotalBytes.
func (s MemoryStats) Utilization() float64 {
	if s.TotalBytes == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.TotalBytes)
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d KB, %d buffers, %d textures]",
		s.Utilization()*100, s.UsedBytes/1024, s.TotalBytes/1024, s.Buffers, s.Textures)
}

// Memory accounts GPU allocations against a byte budget. It does not
// allocate anything itself; callers reserve before creating a resource
// and release after destroying it.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	budget   uint64
	bytes    [2]uint64
	count    [2]int
	rejected uint64
}

// NewMemory returns a budget of maxMB megabytes. Values <= 0 select
// DefaultMaxMemoryMB.
func NewMemory(maxMB int) *Memory {
	if maxMB <= 0 {
		maxMB = DefaultMaxMemoryMB
	}
	return &Memory{budget: uint64(maxMB) * 1024 * 1024}
}

// Reserve accounts size bytes of kind, or returns ErrMemoryBudgetExceeded
// and accounts nothing.
func (m *Memory) Reserve(kind Kind, size uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := m.bytes[KindBuffer] + m.bytes[KindTexture]
	if used+size > m.budget {
		m.rejected++
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrMemoryBudgetExceeded, size, used, m.budget)
	}
	m.bytes[kind] += size
	m.count[kind]++
	return nil
}

// Release returns size bytes of kind to the budget.
func (m *Memory) Release(kind Kind, size uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytes[kind] -= min(size, m.bytes[kind])
	if m.count[kind] > 0 {
		m.count[kind]--
	}
}

// Stats returns a snapshot.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MemoryStats{
		TotalBytes:   m.budget,
		UsedBytes:    m.bytes[KindBuffer] + m.bytes[KindTexture],
		BufferBytes:  m.bytes[KindBuffer],
		TextureBytes: m.bytes[KindTexture],
		Buffers:      m.count[KindBuffer],
		Textures:     m.count[KindTexture],
		Rejected:     m.rejected,
	}
}
