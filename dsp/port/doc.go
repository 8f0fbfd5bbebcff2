// Package port implements typed signal ports: the unit of exchange between
// host-binding code and module logic.
//
// Every port stores a float64 value and runs each write through a fixed
// pipeline: an optional delay line, a kind-specific transform (clamp or
// step quantization), a kind-specific event stage (change detection or
// gate hysteresis) and finally the store. Stages are small strategy values
// chosen when the port is created, so Set never allocates.
//
// Kinds and their policies:
//
//   - Audio: input passes through, output clamped to ±AudioLimit.
//   - CV: clamped to [CVMin, CVMax]; change events beyond Epsilon.
//   - Gate: two-state hysteresis debouncer storing Low/High sentinels; edge events.
//   - Param: CV clamp, then step quantization, then change events.
//   - Light: clamped to [0, 1].
//
// A button is a gate input whose source is a switch; it uses the same
// state machine with its own thresholds.
package port
