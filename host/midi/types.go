// Package midi turns MIDI input into port writes: notes drive a gate and
// a pitch CV, controllers drive parameters.
package midi

import (
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("modular.midi")

// Type is the MIDI event type.
type Type string

const (
	NoteOn        Type = "note_on"
	NoteOff       Type = "note_off"
	ControlChange Type = "control_change"
	ProgramChange Type = "program_change"
)

// Event is a normalized channel message.
type Event struct {
	Type    Type
	Channel uint8 // 1-16
	Data1   uint8 // note, controller or program number
	Data2   uint8 // velocity or controller value
	Time    time.Time
}

// Input is an open MIDI input device.
type Input interface {
	Close() error
}

// Decode normalizes a raw channel message. System messages and unknown
// channel messages are skipped. Note-on with velocity zero decodes as
// note-off.
func Decode(raw []byte, now time.Time) (Event, bool) {
	if len(raw) == 0 || raw[0] >= 0xF0 || raw[0] < 0x80 {
		return Event{}, false
	}
	status := raw[0]
	e := Event{Channel: status&0x0F + 1, Time: now}

	switch status >> 4 {
	case 0x08, 0x09:
		if len(raw) < 3 {
			return Event{}, false
		}
		e.Type = NoteOn
		e.Data1, e.Data2 = raw[1]&0x7F, raw[2]&0x7F
		if status>>4 == 0x08 || e.Data2 == 0 {
			e.Type = NoteOff
		}
	case 0x0B:
		if len(raw) < 3 {
			return Event{}, false
		}
		e.Type = ControlChange
		e.Data1, e.Data2 = raw[1]&0x7F, raw[2]&0x7F
	case 0x0C:
		if len(raw) < 2 {
			return Event{}, false
		}
		e.Type = ProgramChange
		e.Data1 = raw[1] & 0x7F
	default:
		return Event{}, false
	}
	return e, true
}
