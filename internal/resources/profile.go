package resources

import (
	"fmt"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
)

// Spec is the resource specification of an executor process.
type Spec struct {
	CPUCores    CPU
	TaskHeap    MemorySize
	TaskOffHeap MemorySize
	Network     MemorySize
	Managed     MemorySize
}

// Profile describes the resources of an executor or of one of its slots.
type Profile struct {
	CPUCores    CPU        `json:"cpuCores"`
	TaskHeap    MemorySize `json:"taskHeapBytes"`
	TaskOffHeap MemorySize `json:"taskOffHeapBytes"`
	Network     MemorySize `json:"networkBytes"`
	Managed     MemorySize `json:"managedBytes"`
}

// Equal reports whether both profiles describe the same quantities.
func (p Profile) Equal(other Profile) bool {
	return p.CPUCores.Equal(other.CPUCores) &&
		p.TaskHeap == other.TaskHeap &&
		p.TaskOffHeap == other.TaskOffHeap &&
		p.Network == other.Network &&
		p.Managed == other.Managed
}

// Multiply scales every quantity by n.
func (p Profile) Multiply(n int) Profile {
	return Profile{
		CPUCores:    p.CPUCores.Multiply(n),
		TaskHeap:    p.TaskHeap.Multiply(n),
		TaskOffHeap: p.TaskOffHeap.Multiply(n),
		Network:     p.Network.Multiply(n),
		Managed:     p.Managed.Multiply(n),
	}
}

// AllFieldsNoLessThan reports whether every quantity of p is at least that of other.
func (p Profile) AllFieldsNoLessThan(other Profile) bool {
	return p.CPUCores.Cmp(other.CPUCores) >= 0 &&
		p.TaskHeap >= other.TaskHeap &&
		p.TaskOffHeap >= other.TaskOffHeap &&
		p.Network >= other.Network &&
		p.Managed >= other.Managed
}

func (p Profile) String() string {
	return fmt.Sprintf("Profile{cpuCores=%s, taskHeap=%s, taskOffHeap=%s, network=%s, managed=%s}",
		p.CPUCores, p.TaskHeap, p.TaskOffHeap, p.Network, p.Managed)
}

// GenerateDefaultSlotProfile divides the spec evenly across slots.
func GenerateDefaultSlotProfile(spec Spec, slots int) (Profile, error) {
	if slots <= 0 {
		return Profile{}, fmt.Errorf("%w, got %d", ErrInvalidSlotCount, slots)
	}
	return Profile{
		CPUCores:    spec.CPUCores.Divide(slots),
		TaskHeap:    spec.TaskHeap.Divide(slots),
		TaskOffHeap: spec.TaskOffHeap.Divide(slots),
		Network:     spec.Network.Divide(slots),
		Managed:     spec.Managed.Divide(slots),
	}, nil
}

// GenerateTotalProfile returns the resources the whole executor offers.
func GenerateTotalProfile(spec Spec) Profile {
	return Profile{
		CPUCores:    spec.CPUCores,
		TaskHeap:    spec.TaskHeap,
		TaskOffHeap: spec.TaskOffHeap,
		Network:     spec.Network,
		Managed:     spec.Managed,
	}
}

// SpecFromConfiguration reads the resource specification. Unset CPU cores default to
// the number of slots.
func SpecFromConfiguration(v configuration.View) (Spec, error) {
	cpu, err := cpuFromConfiguration(v)
	if err != nil {
		return Spec{}, err
	}

	spec := Spec{CPUCores: cpu}
	targets := []struct {
		opt    configuration.Option
		target *MemorySize
	}{
		{opt: configuration.TaskHeapMemory, target: &spec.TaskHeap},
		{opt: configuration.TaskOffHeapMemory, target: &spec.TaskOffHeap},
		{opt: configuration.NetworkMemory, target: &spec.Network},
		{opt: configuration.ManagedMemory, target: &spec.Managed},
	}
	for _, t := range targets {
		bytes, err := v.GetMemorySize(t.opt)
		if err != nil {
			return Spec{}, fmt.Errorf("read resource spec: %w", err)
		}
		*t.target = MemorySize(bytes)
	}
	return spec, nil
}

func cpuFromConfiguration(v configuration.View) (CPU, error) {
	if raw, ok := v.GetString(configuration.CPUCores); ok {
		cpu, err := ParseCPU(raw)
		if err != nil {
			return CPU{}, fmt.Errorf("read resource spec: %s: %w", configuration.CPUCores.Key, err)
		}
		return cpu, nil
	}

	slots, err := v.GetIntOrDefault(configuration.Slots, 1)
	if err != nil {
		return CPU{}, fmt.Errorf("read resource spec: %w", err)
	}
	if slots <= 0 {
		slots = 1
	}
	return NewCPU(float64(slots)), nil
}
