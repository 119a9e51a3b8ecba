package series

import (
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------

func TestLogBufferEvictsOldestLine(t *testing.T) {
	lb := NewLogBuffer(100)

	for i := 0; i < 105; i++ {
		lb.Append(fmt.Sprintf("line %d", i))
	}

	if got := lb.Size(); got != 100 {
		t.Fatalf("size = %d; want 100", got)
	}

	lines := lb.Lines()
	if got, want := lines[0], "line 5"; got != want {
		t.Fatalf("first line = %q; want %q", got, want)
	}
	if got, want := lines[99], "line 104"; got != want {
		t.Fatalf("last line = %q; want %q", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestLogBufferClear(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Append("a")
	lb.Append("b")

	lb.Clear()

	if got := lb.Size(); got != 0 {
		t.Fatalf("size after clear = %d; want 0", got)
	}
}

// -----------------------------------------------------------------------------

func TestLogBufferLinesReturnsCopy(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Append("a")

	lines := lb.Lines()
	lines[0] = "mutated"

	if got := lb.Lines()[0]; got != "a" {
		t.Fatalf("line = %q; want %q", got, "a")
	}
}
