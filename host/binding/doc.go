// Package binding maps an engine's ports onto a host.
//
// A Layout assigns every port a stable index within its group in creation
// order. Scaling converts between host units (volts, ADC readings, DAC
// codes, GPIO levels) and normalized port values. Driver runs blocks of
// audio through an engine one frame at a time.
package binding
