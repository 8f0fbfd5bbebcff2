package binding

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/cwbudde/algo-modular/dsp/port"
)

const wireVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("binding: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type wireLayout struct {
	Version byte        `cbor:"1,keyasint"`
	Entries []wireEntry `cbor:"2,keyasint"`
}

type wireEntry struct {
	ID        string `cbor:"1,keyasint"`
	Kind      uint8  `cbor:"2,keyasint"`
	Direction uint8  `cbor:"3,keyasint"`
	Source    uint8  `cbor:"4,keyasint,omitempty"`
	Group     uint8  `cbor:"5,keyasint"`
	Index     int    `cbor:"6,keyasint"`
}

// MarshalLayout serializes l to canonical CBOR for panel and remote host
// tooling.
func MarshalLayout(l *Layout) ([]byte, error) {
	w := wireLayout{Version: wireVersion, Entries: make([]wireEntry, len(l.entries))}
	for i, e := range l.entries {
		w.Entries[i] = wireEntry{
			ID:        e.ID,
			Kind:      uint8(e.Kind),
			Direction: uint8(e.Direction),
			Source:    uint8(e.Source),
			Group:     uint8(e.Group),
			Index:     e.Index,
		}
	}
	return cborEncMode.Marshal(w)
}

// UnmarshalLayout deserializes a layout. The result answers Lookup and
// Index by id without an engine.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var w wireLayout
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("binding: unmarshal layout: %w", err)
	}
	if w.Version != wireVersion {
		return nil, fmt.Errorf("binding: unmarshal layout: unsupported version %d", w.Version)
	}

	l := &Layout{byID: make(map[string]int, len(w.Entries))}
	for _, we := range w.Entries {
		if int(we.Kind) >= port.NumKinds || we.Group >= uint8(numGroups) || we.Direction > uint8(port.Output) {
			return nil, fmt.Errorf("binding: unmarshal layout: bad entry %q", we.ID)
		}
		if _, dup := l.byID[we.ID]; dup {
			return nil, fmt.Errorf("binding: unmarshal layout: duplicate id %q", we.ID)
		}
		l.insert(Entry{
			ID:        we.ID,
			Kind:      port.Kind(we.Kind),
			Direction: port.Direction(we.Direction),
			Source:    port.Source(we.Source),
			Group:     Group(we.Group),
			Index:     we.Index,
		})
	}
	return l, nil
}
