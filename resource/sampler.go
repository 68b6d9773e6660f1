package resource

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/poiesic/strategit/core"
)

// GPUSampler supplies GPU utilization for snapshots. There is no portable
// GPU metric source, so callers with one (NVML bindings, vendor SMI
// parsing) plug it in here.
type GPUSampler interface {
	// SampleGPU returns utilization percent and used memory in MB.
	SampleGPU() (percent float64, memoryMB float64, err error)
}

// noopGPUSampler reports an idle GPU.
type noopGPUSampler struct{}

func (noopGPUSampler) SampleGPU() (float64, float64, error) {
	return 0, 0, nil
}

// systemSampler reads host metrics via gopsutil. IO rates are derived
// from counter deltas between consecutive samples, so the first sample
// reports zero IO.
type systemSampler struct {
	gpu GPUSampler

	lastSample    time.Time
	lastNetBytes  uint64
	lastDiskBytes uint64
}

func newSystemSampler(gpu GPUSampler) *systemSampler {
	if gpu == nil {
		gpu = noopGPUSampler{}
	}
	return &systemSampler{gpu: gpu}
}

// sample collects one snapshot. Every metric source is independent: a
// failing source zeroes its fields and the snapshot is still produced.
func (s *systemSampler) sample() core.ResourceSnapshot {
	now := time.Now().UTC()
	snapshot := core.ResourceSnapshot{Timestamp: now}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snapshot.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snapshot.MemoryPercent = vm.UsedPercent
		snapshot.MemoryAvailableMB = float64(vm.Available) / (1024 * 1024)
	}

	if percent, memoryMB, err := s.gpu.SampleGPU(); err == nil {
		snapshot.GPUPercent = percent
		snapshot.GPUMemoryMB = memoryMB
	}

	elapsed := now.Sub(s.lastSample).Seconds()

	if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
		total := counters[0].BytesSent + counters[0].BytesRecv
		if !s.lastSample.IsZero() && elapsed > 0 && total >= s.lastNetBytes {
			snapshot.NetworkIOMBs = float64(total-s.lastNetBytes) / (1024 * 1024) / elapsed
		}
		s.lastNetBytes = total
	}

	if counters, err := disk.IOCounters(); err == nil {
		var total uint64
		for _, c := range counters {
			total += c.ReadBytes + c.WriteBytes
		}
		if !s.lastSample.IsZero() && elapsed > 0 && total >= s.lastDiskBytes {
			snapshot.DiskIOMBs = float64(total-s.lastDiskBytes) / (1024 * 1024) / elapsed
		}
		s.lastDiskBytes = total
	}

	s.lastSample = now
	return snapshot
}
