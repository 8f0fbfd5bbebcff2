package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modular/dsp/port"
)

var (
	// ErrCapacity matches every CapacityError.
	ErrCapacity = errors.New("port capacity exceeded")
	// ErrSealed is the panic value for port creation after Build.
	ErrSealed = errors.New("port registry is sealed")
	// ErrDuplicateID reports a port id used twice in one engine.
	ErrDuplicateID = errors.New("duplicate port id")
	// ErrEmptyID reports a port created without an id.
	ErrEmptyID = errors.New("empty port id")
	// ErrNilModule is returned by Build for a nil module.
	ErrNilModule = errors.New("nil module")
)

// Counts holds the number of created ports per kind and direction.
type Counts struct {
	n [port.NumKinds][2]int
}

// Of returns the count for one kind and direction.
func (c Counts) Of(kind port.Kind, dir port.Direction) int {
	if int(kind) >= port.NumKinds || dir > port.Output {
		return 0
	}
	return c.n[kind][dir]
}

// Sum returns the combined count of the given classes.
func (c Counts) Sum(classes ...Class) int {
	total := 0
	for _, cl := range classes {
		total += c.Of(cl.Kind, cl.Direction)
	}
	return total
}

// Total returns the number of created ports.
func (c Counts) Total() int {
	total := 0
	for k := range c.n {
		total += c.n[k][port.Input] + c.n[k][port.Output]
	}
	return total
}

func (c *Counts) inc(kind port.Kind, dir port.Direction) {
	c.n[kind][dir]++
}

// String renders the capacity report as kind:in/out pairs.
func (c Counts) String() string {
	var sb strings.Builder
	for k := range c.n {
		if k > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s:%d/%d", port.Kind(k), c.n[k][port.Input], c.n[k][port.Output])
	}
	return sb.String()
}

// Limit is one hard ceiling on the combined count of some classes.
type Limit struct {
	Name    string
	Max     int
	Classes []Class
}

// Limits describes the physical I/O budget of a form factor. A nil Limits
// accepts any number of ports.
type Limits []Limit

// SeedLimits returns the budget of a Daisy Seed build: two audio channels
// each way, ten ADC inputs shared by params and CV, the two DAC pins for CV
// out and eighteen GPIO lines for gates, buttons and lights.
func SeedLimits() Limits {
	return Limits{
		{Name: "max 2 audio ins", Max: 2, Classes: []Class{{port.Audio, port.Input}}},
		{Name: "max 2 audio outs", Max: 2, Classes: []Class{{port.Audio, port.Output}}},
		{Name: "max 10 params + CV ins", Max: 10, Classes: []Class{{port.Param, port.Input}, {port.CV, port.Input}}},
		{Name: "max 2 CV outs", Max: 2, Classes: []Class{{port.CV, port.Output}}},
		{Name: "max 18 gate, button and light lines", Max: 18, Classes: []Class{{port.Gate, port.Input}, {port.Gate, port.Output}, {port.Light, port.Output}}},
	}
}

// Validate returns a CapacityError for the first limit that c exceeds.
func (l Limits) Validate(c Counts) error {
	for _, lim := range l {
		if n := c.Sum(lim.Classes...); n > lim.Max {
			return &CapacityError{Rule: lim.Name, Count: n, Max: lim.Max}
		}
	}
	return nil
}

// Check reports structural problems with the limits themselves.
func (l Limits) Check() error {
	for i, lim := range l {
		if lim.Max < 0 {
			return fmt.Errorf("limit %d (%s): negative maximum %d", i, lim.Name, lim.Max)
		}
		if len(lim.Classes) == 0 {
			return fmt.Errorf("limit %d (%s): no port classes", i, lim.Name)
		}
	}
	return nil
}

// CapacityError reports a port creation that exceeded a limit. It is a
// design-time mismatch between module and form factor.
type CapacityError struct {
	Rule    string
	Count   int
	Max     int
	PortID  string
	Class   Class
	Ordinal int
}

func (e *CapacityError) Error() string {
	if e.PortID == "" {
		return fmt.Sprintf("%v: %s (%d > %d)", ErrCapacity, e.Rule, e.Count, e.Max)
	}
	return fmt.Sprintf("%v: %s (%d > %d) at port #%d %q (%s)",
		ErrCapacity, e.Rule, e.Count, e.Max, e.Ordinal, e.PortID, e.Class)
}

// Is reports whether target is ErrCapacity.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}
