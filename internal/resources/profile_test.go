package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
)

func testSpec(t *testing.T) Spec {
	t.Helper()

	cpu, err := ParseCPU("1.0")
	require.NoError(t, err)
	return Spec{
		CPUCores:    cpu,
		TaskHeap:    MemorySize(384 << 20),
		TaskOffHeap: MemorySize(0),
		Network:     MemorySize(64 << 20),
		Managed:     MemorySize(128 << 20),
	}
}

func TestGenerateDefaultSlotProfile(t *testing.T) {
	spec := testSpec(t)

	profile, err := GenerateDefaultSlotProfile(spec, 3)
	require.NoError(t, err)

	assert.Equal(t, "0.3333333333333333", profile.CPUCores.String())
	assert.Equal(t, MemorySize((384<<20)/3), profile.TaskHeap)
	assert.Equal(t, MemorySize(0), profile.TaskOffHeap)
	assert.Equal(t, MemorySize((64<<20)/3), profile.Network)
	assert.Equal(t, MemorySize((128<<20)/3), profile.Managed)
}

func TestGenerateDefaultSlotProfileRejectsNonPositiveSlots(t *testing.T) {
	for _, slots := range []int{0, -1, -7} {
		_, err := GenerateDefaultSlotProfile(testSpec(t), slots)
		require.ErrorIs(t, err, ErrInvalidSlotCount)
	}
}

func TestTotalCoversAllSlots(t *testing.T) {
	spec := testSpec(t)
	total := GenerateTotalProfile(spec)

	for _, slots := range []int{1, 2, 3, 7, 16, 100} {
		perSlot, err := GenerateDefaultSlotProfile(spec, slots)
		require.NoError(t, err)
		assert.True(t, total.AllFieldsNoLessThan(perSlot.Multiply(slots)),
			"total must cover %d slots of %s", slots, perSlot)
	}
}

func TestGenerateTotalProfileCopiesSpec(t *testing.T) {
	spec := testSpec(t)
	total := GenerateTotalProfile(spec)

	assert.True(t, total.CPUCores.Equal(spec.CPUCores))
	assert.Equal(t, spec.TaskHeap, total.TaskHeap)
	assert.Equal(t, spec.Managed, total.Managed)
}

func TestProfileEqual(t *testing.T) {
	a := GenerateTotalProfile(testSpec(t))
	b := GenerateTotalProfile(testSpec(t))
	assert.True(t, a.Equal(b))

	b.Network++
	assert.False(t, a.Equal(b))
}

func TestSpecFromConfiguration(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spec, err := SpecFromConfiguration(configuration.New())
		require.NoError(t, err)

		assert.Equal(t, 1.0, spec.CPUCores.Float64())
		assert.Equal(t, MemorySize(384<<20), spec.TaskHeap)
		assert.Equal(t, MemorySize(0), spec.TaskOffHeap)
		assert.Equal(t, MemorySize(64<<20), spec.Network)
		assert.Equal(t, MemorySize(128<<20), spec.Managed)
	})

	t.Run("cpu defaults to slot count", func(t *testing.T) {
		conf := configuration.FromMap(map[string]string{configuration.Slots.Key: "4"})
		spec, err := SpecFromConfiguration(conf)
		require.NoError(t, err)
		assert.Equal(t, 4.0, spec.CPUCores.Float64())
	})

	t.Run("unset slot sentinel yields one core", func(t *testing.T) {
		conf := configuration.FromMap(map[string]string{configuration.Slots.Key: "-1"})
		spec, err := SpecFromConfiguration(conf)
		require.NoError(t, err)
		assert.Equal(t, 1.0, spec.CPUCores.Float64())
	})

	t.Run("explicit values", func(t *testing.T) {
		conf := configuration.FromMap(map[string]string{
			configuration.CPUCores.Key:          "2.5",
			configuration.TaskHeapMemory.Key:    "1g",
			configuration.ManagedMemory.Key:     "512 mb",
			configuration.TaskOffHeapMemory.Key: "16m",
		})
		spec, err := SpecFromConfiguration(conf)
		require.NoError(t, err)
		assert.Equal(t, "2.5", spec.CPUCores.String())
		assert.Equal(t, MemorySize(1<<30), spec.TaskHeap)
		assert.Equal(t, MemorySize(512<<20), spec.Managed)
		assert.Equal(t, MemorySize(16<<20), spec.TaskOffHeap)
	})

	t.Run("invalid memory", func(t *testing.T) {
		conf := configuration.FromMap(map[string]string{configuration.NetworkMemory.Key: "lots"})
		_, err := SpecFromConfiguration(conf)
		require.ErrorIs(t, err, configuration.ErrInvalidMemorySize)
	})

	t.Run("invalid cpu", func(t *testing.T) {
		for _, raw := range []string{"many", "-1"} {
			conf := configuration.FromMap(map[string]string{configuration.CPUCores.Key: raw})
			_, err := SpecFromConfiguration(conf)
			require.Error(t, err, raw)
		}
	})
}

func TestMemorySizeString(t *testing.T) {
	assert.Equal(t, "64MiB", MemorySize(64<<20).String())
}

func TestProfileJSON(t *testing.T) {
	profile, err := GenerateDefaultSlotProfile(testSpec(t), 2)
	require.NoError(t, err)

	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"cpuCores":0.5,"taskHeapBytes":201326592,"taskOffHeapBytes":0,"networkBytes":33554432,"managedBytes":67108864}`,
		string(data))
}
