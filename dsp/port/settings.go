package port

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/core"
)

var (
	// ErrThresholds reports an unordered dead band or misplaced sentinels.
	ErrThresholds = errors.New("invalid gate thresholds")
	// ErrRange reports an empty or NaN range, limit or epsilon.
	ErrRange = errors.New("invalid value range")
	// ErrDirection reports a kind created in a direction it lacks.
	ErrDirection = errors.New("port kind does not support direction")
)

// Thresholds configures the hysteresis debouncer of a gate. A HIGH gate
// falls only below LowThreshold; a LOW gate rises only above HighThreshold.
// Low and High are the sentinel values stored for each state.
type Thresholds struct {
	LowThreshold  float64
	HighThreshold float64
	Low           float64
	High          float64
}

// Validate checks that the dead band is ordered and that both sentinels
// sit on the far side of their threshold.
func (t Thresholds) Validate() error {
	if !(t.LowThreshold <= t.HighThreshold) {
		return fmt.Errorf("%w: low threshold %v above high threshold %v", ErrThresholds, t.LowThreshold, t.HighThreshold)
	}
	if !(t.Low < t.LowThreshold) {
		return fmt.Errorf("%w: low sentinel %v not below low threshold %v", ErrThresholds, t.Low, t.LowThreshold)
	}
	if !(t.High > t.HighThreshold) {
		return fmt.Errorf("%w: high sentinel %v not above high threshold %v", ErrThresholds, t.High, t.HighThreshold)
	}
	return nil
}

// Settings holds the deployment parameters shared by all ports of an
// engine: ranges, epsilon and gate thresholds.
type Settings struct {
	Epsilon    float64
	CVMin      float64
	CVMax      float64
	AudioLimit float64
	Gate       Thresholds
	Button     Thresholds
}

// DefaultSettings returns the normalized-scale defaults.
func DefaultSettings() Settings {
	return Settings{
		Epsilon:    core.DefaultEpsilon,
		CVMin:      -1,
		CVMax:      1,
		AudioLimit: 2,
		Gate: Thresholds{
			LowThreshold:  0.01,
			HighThreshold: 0.2,
			Low:           0,
			High:          1,
		},
		Button: Thresholds{
			LowThreshold:  0.25,
			HighThreshold: 0.75,
			Low:           0,
			High:          1,
		},
	}
}

// Validate reports the first inconsistent setting.
func (s Settings) Validate() error {
	if !(s.Epsilon >= 0) {
		return fmt.Errorf("%w: epsilon %v", ErrRange, s.Epsilon)
	}
	if !(s.CVMin < s.CVMax) {
		return fmt.Errorf("%w: cv range [%v, %v]", ErrRange, s.CVMin, s.CVMax)
	}
	if !(s.AudioLimit > 0) {
		return fmt.Errorf("%w: audio limit %v", ErrRange, s.AudioLimit)
	}
	if err := s.Gate.Validate(); err != nil {
		return fmt.Errorf("gate: %w", err)
	}
	if err := s.Button.Validate(); err != nil {
		return fmt.Errorf("button: %w", err)
	}
	return nil
}
