package delay

import "testing"

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New[float64](0); err == nil {
		t.Fatal("expected error for frames=0")
	}

	if _, err := New[float64](-1); err == nil {
		t.Fatal("expected error for frames=-1")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New[float64](16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 16 {
		t.Fatalf("Len: got %d want 16", d.Len())
	}

	if d.Pending() != 0 {
		t.Fatalf("Pending: got %d want 0", d.Pending())
	}
}

// --- lag behaviour ---

func TestPushAbsorbsUntilFull(t *testing.T) {
	d, err := New[float64](3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if _, ok := d.Push(float64(i)); ok {
			t.Fatalf("write %d released a value before the line filled", i)
		}
	}

	if d.Pending() != 3 {
		t.Fatalf("Pending: got %d want 3", d.Pending())
	}
}

func TestPushStrictFIFO(t *testing.T) {
	const n = 4
	d, err := New[float64](n)
	if err != nil {
		t.Fatal(err)
	}

	var released []float64
	for i := 1; i <= 3*n; i++ {
		if out, ok := d.Push(float64(i)); ok {
			released = append(released, out)
		}
	}

	if len(released) != 2*n {
		t.Fatalf("released %d values, want %d", len(released), 2*n)
	}

	for i, v := range released {
		if v != float64(i+1) {
			t.Fatalf("released[%d] = %v, want %v", i, v, float64(i+1))
		}
	}

	if d.Pending() != n {
		t.Fatalf("Pending: got %d want %d", d.Pending(), n)
	}
}

func TestPushSingleFrameLag(t *testing.T) {
	d, err := New[bool](1)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := d.Push(true); ok {
		t.Fatal("first write must be absorbed")
	}

	out, ok := d.Push(false)
	if !ok || !out {
		t.Fatalf("second write: got (%v, %v) want (true, true)", out, ok)
	}
}

func TestReset(t *testing.T) {
	d, err := New[float64](2)
	if err != nil {
		t.Fatal(err)
	}

	d.Push(1)
	d.Push(2)
	d.Reset()

	if d.Pending() != 0 {
		t.Fatalf("Pending after reset: got %d want 0", d.Pending())
	}

	if _, ok := d.Push(3); ok {
		t.Fatal("write after reset must be absorbed again")
	}
}

func TestPushDoesNotAllocate(t *testing.T) {
	d, err := New[float64](8)
	if err != nil {
		t.Fatal(err)
	}

	v := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		v++
		d.Push(v)
	})
	if allocs != 0 {
		t.Fatalf("Push allocated %v times per run, want 0", allocs)
	}
}
