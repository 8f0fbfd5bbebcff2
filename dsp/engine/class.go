package engine

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modular/dsp/port"
)

// Class identifies one capacity counter: a port kind in one direction.
type Class struct {
	Kind      port.Kind
	Direction port.Direction
}

func (c Class) String() string {
	return c.Kind.String() + "/" + c.Direction.String()
}

// ParseClass parses "kind/direction", for example "gate/in".
func ParseClass(s string) (Class, error) {
	kindName, dirName, ok := strings.Cut(s, "/")
	if !ok {
		return Class{}, fmt.Errorf("port class %q: want kind/direction", s)
	}
	k, err := port.ParseKind(kindName)
	if err != nil {
		return Class{}, err
	}
	d, err := port.ParseDirection(dirName)
	if err != nil {
		return Class{}, err
	}
	return Class{Kind: k, Direction: d}, nil
}
