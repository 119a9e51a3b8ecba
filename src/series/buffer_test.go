package series

import (
	"testing"

	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------

func point(ts int64, v float64) models.MCanonicalPoint {
	return models.MCanonicalPoint{TimeSeconds: ts, Value: v}
}

// -----------------------------------------------------------------------------

func TestBufferEvictsOldestAtCapacity(t *testing.T) {
	buf := NewBuffer(3)

	for i := int64(1); i <= 5; i++ {
		buf.Push(point(i, float64(i)))
	}

	if got, want := buf.Size(), 3; got != want {
		t.Fatalf("size = %d; want %d", got, want)
	}
	if !buf.IsFull() {
		t.Fatal("buffer should be full")
	}

	got := buf.GetAll()
	wantTimes := []int64{3, 4, 5}
	for i, w := range wantTimes {
		if got[i].TimeSeconds != w {
			t.Fatalf("point[%d].time = %d; want %d", i, got[i].TimeSeconds, w)
		}
	}
}

// -----------------------------------------------------------------------------

func TestBufferKeepsArrivalOrder(t *testing.T) {
	buf := NewBuffer(10)

	// Out-of-order times stay in arrival order, no reordering or dedup.
	times := []int64{5, 3, 5, 9, 1}
	for _, ts := range times {
		buf.Push(point(ts, 0))
	}

	got := buf.GetAll()
	if len(got) != len(times) {
		t.Fatalf("len = %d; want %d", len(got), len(times))
	}
	for i, ts := range times {
		if got[i].TimeSeconds != ts {
			t.Fatalf("point[%d].time = %d; want %d", i, got[i].TimeSeconds, ts)
		}
	}
}

// -----------------------------------------------------------------------------

func TestBufferGetLatest(t *testing.T) {
	buf := NewBuffer(5)
	for i := int64(1); i <= 5; i++ {
		buf.Push(point(i, 0))
	}

	got := buf.GetLatest(2)
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].TimeSeconds != 4 || got[1].TimeSeconds != 5 {
		t.Fatalf("latest = [%d %d]; want [4 5]", got[0].TimeSeconds, got[1].TimeSeconds)
	}

	if got := buf.GetLatest(10); len(got) != 5 {
		t.Fatalf("oversized latest len = %d; want 5", len(got))
	}
}

// -----------------------------------------------------------------------------

func TestBufferClear(t *testing.T) {
	buf := NewBuffer(5)
	buf.Push(point(1, 1))
	buf.Clear()

	if got := buf.Size(); got != 0 {
		t.Fatalf("size after clear = %d; want 0", got)
	}
	if got := buf.GetAll(); len(got) != 0 {
		t.Fatalf("points after clear = %d; want 0", len(got))
	}
}
