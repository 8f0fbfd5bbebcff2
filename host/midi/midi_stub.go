//go:build !midi_native

package midi

import "errors"

var errNoDriver = errors.New("native MIDI driver is not included in this build (build with -tags midi_native)")

// OpenInput opens the named input device. This build has no driver.
func OpenInput(deviceName string) (Input, <-chan Event, error) {
	return nil, nil, errNoDriver
}

// ListInputs lists input device names. This build has no driver.
func ListInputs() ([]string, error) {
	return nil, errNoDriver
}
