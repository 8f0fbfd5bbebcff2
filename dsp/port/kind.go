package port

import (
	"fmt"
	"strings"
)

// Kind is the semantic kind of a port.
type Kind uint8

const (
	Audio Kind = iota
	CV
	Gate
	Param
	Light

	numKinds
)

// NumKinds is the number of port kinds.
const NumKinds = int(numKinds)

var kindNames = [...]string{"audio", "cv", "gate", "param", "light"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown port kind %q", s)
}

// Direction tells whether the host writes (Input) or reads (Output) a port.
type Direction uint8

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "in"
	case Output:
		return "out"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection accepts "in", "input", "out" and "output".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return Input, nil
	case "out", "output":
		return Output, nil
	}
	return 0, fmt.Errorf("unknown port direction %q", s)
}

// Source describes the physical origin of a gate input. Jacks idle low
// (pull-down); switches idle high and read inverted (pull-up).
type Source uint8

const (
	Jack Source = iota
	Switch
)

func (s Source) String() string {
	if s == Switch {
		return "switch"
	}
	return "jack"
}
