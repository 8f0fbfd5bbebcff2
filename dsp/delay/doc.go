// Package delay provides the fixed-length delay line used to stagger
// correlated port writes, for example holding back a gate for a few frames
// so that a co-arriving pitch value has settled before the edge fires.
package delay
