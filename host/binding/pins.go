package binding

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/port"
)

// Pin is a physical Seed pin bound to a port.
type Pin struct {
	Name   string
	PortID string
}

// Seed pin tables in assignment order.
var (
	seedADC  = []int{0, 1, 2, 3, 4, 5, 6, 9, 10, 11}
	seedDAC  = []int{1, 2}
	seedGPIO = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 27, 28, 29, 30}
)

// SeedPins assigns Seed pins to the layout's ports: ADC channels to CV
// inputs then params, the DAC to CV outputs and GPIO lines to buttons,
// gate inputs, gate outputs and lights. Audio uses the codec and gets no
// pin.
func SeedPins(l *Layout) ([]Pin, error) {
	var (
		pins           []Pin
		adc, dac, gpio int
	)
	next := func(table []int, i *int, prefix string, e Entry) error {
		if *i >= len(table) {
			return fmt.Errorf("no %s pin left for %q", prefix, e.ID)
		}
		pins = append(pins, Pin{Name: fmt.Sprintf("%s%d", prefix, table[*i]), PortID: e.ID})
		*i++
		return nil
	}

	order := []struct {
		kind   port.Kind
		dir    port.Direction
		button bool
	}{
		{port.CV, port.Input, false},
		{port.Param, port.Input, false},
		{port.CV, port.Output, false},
		{port.Gate, port.Input, true},
		{port.Gate, port.Input, false},
		{port.Gate, port.Output, false},
		{port.Light, port.Output, false},
	}
	for _, o := range order {
		for _, e := range l.entries {
			if e.Kind != o.kind || e.Direction != o.dir {
				continue
			}
			if o.kind == port.Gate && o.dir == port.Input && (e.Source == port.Switch) != o.button {
				continue
			}

			var err error
			switch e.Kind {
			case port.CV:
				if e.Direction == port.Input {
					err = next(seedADC, &adc, "ADC", e)
				} else {
					err = next(seedDAC, &dac, "DAC", e)
				}
			case port.Param:
				err = next(seedADC, &adc, "ADC", e)
			default:
				err = next(seedGPIO, &gpio, "D", e)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	log.Info("pin mappings:")
	for _, p := range pins {
		log.Infof("  [%s] %q", p.Name, p.PortID)
	}
	return pins, nil
}
