// Package resources computes the resource profiles of an executor: the total it offers
// and the default share of a single slot.
package resources

import (
	"errors"
	"fmt"

	"github.com/alecthomas/units"
	"github.com/shopspring/decimal"
)

// cpuScale is the number of fractional digits kept when CPU cores are divided.
const cpuScale = 16

// ErrInvalidSlotCount indicates a profile was requested for a non-positive slot count.
var ErrInvalidSlotCount = errors.New("number of slots must be positive")

// CPU is an amount of CPU cores.
type CPU struct {
	value decimal.Decimal
}

// NewCPU creates a CPU amount from a float.
func NewCPU(cores float64) CPU {
	return CPU{value: decimal.NewFromFloat(cores)}
}

// ParseCPU parses a decimal amount of cores such as "1.5".
func ParseCPU(raw string) (CPU, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return CPU{}, fmt.Errorf("invalid cpu cores %q: %w", raw, err)
	}
	if value.IsNegative() {
		return CPU{}, fmt.Errorf("invalid cpu cores %q: must not be negative", raw)
	}
	return CPU{value: value}, nil
}

// Divide splits the cores into n parts, rounding down to 16 fractional digits.
func (c CPU) Divide(n int) CPU {
	q, _ := c.value.QuoRem(decimal.NewFromInt(int64(n)), cpuScale)
	return CPU{value: q}
}

// Multiply returns n times c.
func (c CPU) Multiply(n int) CPU {
	return CPU{value: c.value.Mul(decimal.NewFromInt(int64(n)))}
}

func (c CPU) Cmp(other CPU) int {
	return c.value.Cmp(other.value)
}

func (c CPU) Equal(other CPU) bool {
	return c.value.Equal(other.value)
}

func (c CPU) Float64() float64 {
	f, _ := c.value.Float64()
	return f
}

func (c CPU) String() string {
	return c.value.String()
}

// MarshalJSON encodes the cores as a JSON number.
func (c CPU) MarshalJSON() ([]byte, error) {
	return []byte(c.value.String()), nil
}

// MemorySize is an amount of memory in bytes.
type MemorySize int64

// Divide splits the size into n parts using integer division.
func (m MemorySize) Divide(n int) MemorySize {
	return m / MemorySize(n)
}

func (m MemorySize) Multiply(n int) MemorySize {
	return m * MemorySize(n)
}

func (m MemorySize) Bytes() int64 {
	return int64(m)
}

// String renders the size with base-2 units, e.g. "64MiB".
func (m MemorySize) String() string {
	return units.Base2Bytes(m).String()
}
