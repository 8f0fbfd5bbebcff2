package binding

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("modular.binding")

// Group is a host-facing port group.
type Group uint8

const (
	Inputs Group = iota
	Outputs
	Params
	Lights

	numGroups
)

var groupNames = [...]string{"inputs", "outputs", "params", "lights"}

func (g Group) String() string {
	if g < numGroups {
		return groupNames[g]
	}
	return fmt.Sprintf("group(%d)", uint8(g))
}

// Entry is the binding of one port.
type Entry struct {
	ID        string
	Kind      port.Kind
	Direction port.Direction
	Source    port.Source
	Group     Group
	Index     int
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s %d] %q %s/%s", e.Group, e.Index, e.ID, e.Kind, e.Direction)
}

// Layout is the id-to-index binding of an engine's ports. Inputs hold
// audio, CV and jack gate inputs; outputs hold audio, CV and gate outputs;
// params hold params followed by buttons; lights hold lights. Within each
// kind ports keep their creation order.
type Layout struct {
	entries []Entry
	byID    map[string]int
	sizes   [numGroups]int
}

// NewLayout builds the layout of e and logs the mapping.
func NewLayout(e *engine.Engine) *Layout {
	l := &Layout{byID: make(map[string]int)}

	for _, p := range e.PortsOf(port.Audio, port.Input) {
		l.add(p, Inputs)
	}
	for _, p := range e.PortsOf(port.CV, port.Input) {
		l.add(p, Inputs)
	}
	for _, p := range e.PortsOf(port.Gate, port.Input) {
		if !p.IsButton() {
			l.add(p, Inputs)
		}
	}
	for _, p := range e.PortsOf(port.Audio, port.Output) {
		l.add(p, Outputs)
	}
	for _, p := range e.PortsOf(port.CV, port.Output) {
		l.add(p, Outputs)
	}
	for _, p := range e.PortsOf(port.Gate, port.Output) {
		l.add(p, Outputs)
	}
	for _, p := range e.PortsOf(port.Param, port.Input) {
		l.add(p, Params)
	}
	for _, p := range e.PortsOf(port.Gate, port.Input) {
		if p.IsButton() {
			l.add(p, Params)
		}
	}
	for _, p := range e.PortsOf(port.Light, port.Output) {
		l.add(p, Lights)
	}

	log.Info("port mappings:")
	for _, entry := range l.entries {
		log.Infof("  %s", entry)
	}
	return l
}

func (l *Layout) add(p *port.Port, g Group) {
	l.insert(Entry{
		ID:        p.ID(),
		Kind:      p.Kind(),
		Direction: p.Direction(),
		Source:    p.Source(),
		Group:     g,
		Index:     l.sizes[g],
	})
}

func (l *Layout) insert(e Entry) {
	l.byID[e.ID] = len(l.entries)
	l.entries = append(l.entries, e)
	if e.Group < numGroups {
		l.sizes[e.Group]++
	}
}

// Entries returns all entries, grouped as described on Layout.
func (l *Layout) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Group returns the entries of g in index order.
func (l *Layout) Group(g Group) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Group == g {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the number of entries in g.
func (l *Layout) Size(g Group) int {
	if g >= numGroups {
		return 0
	}
	return l.sizes[g]
}

// Lookup returns the entry bound to id.
func (l *Layout) Lookup(id string) (Entry, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Index returns the group index of p. It fails when p is not part of the
// layout or its kind or direction changed under the same id.
func (l *Layout) Index(p *port.Port) (int, bool) {
	e, ok := l.Lookup(p.ID())
	if !ok || e.Kind != p.Kind() || e.Direction != p.Direction() {
		return 0, false
	}
	return e.Index, true
}
