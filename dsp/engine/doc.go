// Package engine owns the ports of one module instance and drives its
// processing.
//
// Ports are created through a Builder while the module is constructed.
// Every creation increments one per-kind, per-direction counter and then
// re-validates all counters against the form factor's Limits, so the
// offending call is the one reported. Build seals the registry and returns
// the Engine; no ports can be added afterwards.
//
// Engine.Process is the single per-frame entry point. It invokes the
// module's SampleRateChanged hook once whenever the sample rate differs
// from the last observed one, then always invokes Process exactly once.
package engine
