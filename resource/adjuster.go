package resource

import (
	"log/slog"
	"sync"

	"github.com/poiesic/strategit/core"
)

// Mode names an optimization posture for the adjuster.
type Mode string

const (
	ModePerformance  Mode = "performance"
	ModeEfficiency   Mode = "efficiency"
	ModeBalanced     Mode = "balanced"
	ModeConservative Mode = "conservative"
)

// ModeProfile carries the per-mode resource emphasis and the retrieval
// constraints the mode tolerates.
type ModeProfile struct {
	CPUWeight    float64
	MemoryWeight float64
	GPUWeight    float64

	AccuracyWeight float64
	SpeedWeight    float64

	MaxLatencyMillis float64
	MinAccuracy      float64
}

var modeProfiles = map[Mode]ModeProfile{
	ModePerformance: {
		CPUWeight: 0.3, MemoryWeight: 0.3, GPUWeight: 0.4,
		AccuracyWeight: 0.6, SpeedWeight: 0.4,
		MaxLatencyMillis: 2000, MinAccuracy: 0.8,
	},
	ModeEfficiency: {
		CPUWeight: 0.4, MemoryWeight: 0.4, GPUWeight: 0.2,
		AccuracyWeight: 0.4, SpeedWeight: 0.6,
		MaxLatencyMillis: 5000, MinAccuracy: 0.7,
	},
	ModeBalanced: {
		CPUWeight: 0.33, MemoryWeight: 0.33, GPUWeight: 0.34,
		AccuracyWeight: 0.5, SpeedWeight: 0.5,
		MaxLatencyMillis: 3000, MinAccuracy: 0.75,
	},
	ModeConservative: {
		CPUWeight: 0.5, MemoryWeight: 0.4, GPUWeight: 0.1,
		AccuracyWeight: 0.3, SpeedWeight: 0.7,
		MaxLatencyMillis: 8000, MinAccuracy: 0.6,
	},
}

// Advisory is a recommendation the adjuster surfaces but does not act on.
type Advisory string

const (
	AdvisoryReduceBatchSize Advisory = "reduce_batch_size"
	AdvisoryDisableGPU      Advisory = "disable_gpu_acceleration"
)

// Reactive rule boundaries.
const (
	cpuConservativeAbove = 90.0
	memAdvisoryAbove     = 90.0
	gpuAdvisoryAbove     = 95.0
	cpuPerformanceBelow  = 30.0
	memPerformanceBelow  = 50.0
)

// Pressure cut factors applied to weights when a resource is critical.
const (
	cpuCriticalDenseFactor = 0.5
	cpuCriticalWebFactor   = 0.3
	memCriticalDenseFactor = 0.7
	memCriticalWebFactor   = 0.5
	gpuCriticalDenseFactor = 0.6
)

// Adjuster adapts the optimization mode and retrieval weights to current
// resource conditions.
type Adjuster struct {
	mu     sync.RWMutex
	mode   Mode
	logger *slog.Logger
}

// NewAdjuster creates an Adjuster in balanced mode.
func NewAdjuster(logger *slog.Logger) *Adjuster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adjuster{
		mode:   ModeBalanced,
		logger: logger.With("component", "resource-adjuster"),
	}
}

// Mode returns the current optimization mode.
func (a *Adjuster) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// SetMode switches the mode explicitly. Unknown modes are ignored.
func (a *Adjuster) SetMode(mode Mode) {
	if _, ok := modeProfiles[mode]; !ok {
		a.logger.Warn("ignoring unknown optimization mode", "mode", mode)
		return
	}
	a.mu.Lock()
	a.mode = mode
	a.mu.Unlock()
	a.logger.Info("optimization mode set", "mode", mode)
}

// Profile returns the profile of the current mode.
func (a *Adjuster) Profile() ModeProfile {
	return modeProfiles[a.Mode()]
}

// React applies the reactive rules to a snapshot: heavy CPU load drops to
// conservative mode, ample headroom promotes to performance mode, and
// memory or GPU saturation yields advisories for the caller to act on.
func (a *Adjuster) React(snapshot core.ResourceSnapshot) []Advisory {
	var advisories []Advisory

	if snapshot.CPUPercent > cpuConservativeAbove {
		a.switchMode(ModeConservative, "cpu saturated", snapshot.CPUPercent)
	} else if snapshot.CPUPercent < cpuPerformanceBelow && snapshot.MemoryPercent < memPerformanceBelow {
		a.switchMode(ModePerformance, "resources idle", snapshot.CPUPercent)
	}

	if snapshot.MemoryPercent > memAdvisoryAbove {
		advisories = append(advisories, AdvisoryReduceBatchSize)
	}
	if snapshot.GPUPercent > gpuAdvisoryAbove {
		advisories = append(advisories, AdvisoryDisableGPU)
	}

	return advisories
}

// AdjustWeights cuts the expensive backends when a resource is critical
// and renormalizes. The input is not mutated.
func (a *Adjuster) AdjustWeights(weights core.WeightVector, status StatusReport) core.WeightVector {
	adjusted := weights.Clone()

	if status.CPU == StatusCritical {
		adjusted[core.BackendDense] *= cpuCriticalDenseFactor
		adjusted[core.BackendWeb] *= cpuCriticalWebFactor
	}
	if status.Memory == StatusCritical {
		adjusted[core.BackendDense] *= memCriticalDenseFactor
		adjusted[core.BackendWeb] *= memCriticalWebFactor
	}
	if status.GPU == StatusCritical {
		adjusted[core.BackendDense] *= gpuCriticalDenseFactor
	}

	adjusted.Normalize()
	return adjusted
}

func (a *Adjuster) switchMode(mode Mode, reason string, cpu float64) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info("optimization mode switched", "mode", mode, "reason", reason, "cpu", cpu)
	}
}
