package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-modular/dsp/port"
)

func TestParseClass(t *testing.T) {
	cases := []struct {
		in   string
		want Class
		ok   bool
	}{
		{"gate/in", Class{port.Gate, port.Input}, true},
		{"light/out", Class{port.Light, port.Output}, true},
		{"CV/output", Class{port.CV, port.Output}, true},
		{"gate", Class{}, false},
		{"foo/in", Class{}, false},
		{"audio/sideways", Class{}, false},
	}
	for _, tc := range cases {
		got, err := ParseClass(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseClass(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseClass(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if tc.ok && got.String() != strings.ToLower(strings.Replace(tc.in, "output", "out", 1)) {
			t.Fatalf("Class.String() = %q", got.String())
		}
	}
}

func TestLimitsValidate(t *testing.T) {
	var c Counts
	for range 3 {
		c.inc(port.CV, port.Output)
	}
	if err := Limits(nil).Validate(c); err != nil {
		t.Fatalf("nil Limits.Validate() = %v", err)
	}
	err := SeedLimits().Validate(c)
	var ce *CapacityError
	if !errors.As(err, &ce) || ce.Rule != "max 2 CV outs" {
		t.Fatalf("Validate() = %v, want CV out rule", err)
	}
	if ce.PortID != "" || !strings.Contains(err.Error(), "(3 > 2)") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestLimitsCheck(t *testing.T) {
	if err := SeedLimits().Check(); err != nil {
		t.Fatalf("SeedLimits().Check() = %v", err)
	}
	bad := []Limits{
		{{Name: "neg", Max: -1, Classes: []Class{{port.Audio, port.Input}}}},
		{{Name: "empty", Max: 2}},
	}
	for _, l := range bad {
		if err := l.Check(); err == nil {
			t.Fatalf("Check(%v) = nil, want error", l)
		}
	}
}

func TestCapacityErrorMessage(t *testing.T) {
	err := &CapacityError{Rule: "max 2 audio ins", Count: 3, Max: 2, PortID: "in3", Class: Class{port.Audio, port.Input}, Ordinal: 3}
	want := `port capacity exceeded: max 2 audio ins (3 > 2) at port #3 "in3" (audio/in)`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
