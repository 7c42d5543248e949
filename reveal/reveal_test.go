package reveal

import (
	"testing"
	"time"
)

type virtualClock struct{ now time.Time }

func (c *virtualClock) Now() time.Time          { return c.now }
func (c *virtualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestAwakeningSequence(t *testing.T) {
	clock := &virtualClock{now: time.Unix(1000, 0)}
	seq := Start(clock, AwakeningSteps(4500*time.Millisecond, 3500*time.Millisecond)...)

	steps := []struct {
		advance time.Duration
		phase   Phase
		done    bool
		left    time.Duration
	}{
		{0, Rolling, false, 4500 * time.Millisecond},
		{4499 * time.Millisecond, Rolling, false, time.Millisecond},
		{time.Millisecond, Revealing, false, 3500 * time.Millisecond},
		{3 * time.Second, Revealing, false, 500 * time.Millisecond},
		{500 * time.Millisecond, Summary, true, 0},
		{time.Hour, Summary, true, 0},
	}
	for i, st := range steps {
		clock.Advance(st.advance)
		if got := seq.Phase(); got != st.phase {
			t.Fatalf("step %d: phase = %s, want %s", i, got, st.phase)
		}
		if got := seq.Done(); got != st.done {
			t.Fatalf("step %d: done = %v, want %v", i, got, st.done)
		}
		if got := seq.Remaining(); got != st.left {
			t.Fatalf("step %d: remaining = %v, want %v", i, got, st.left)
		}
	}
}

func TestReawakeningSequence(t *testing.T) {
	clock := &virtualClock{now: time.Unix(0, 0)}
	seq := Start(clock, ReawakeningSteps(3*time.Second, 5*time.Second)...)

	if seq.Phase() != Surge {
		t.Fatalf("phase = %s", seq.Phase())
	}
	clock.Advance(3 * time.Second)
	if seq.Phase() != StatsRise {
		t.Fatalf("phase = %s", seq.Phase())
	}
	clock.Advance(5 * time.Second)
	if seq.Phase() != RankShift || !seq.Done() {
		t.Fatalf("phase = %s done = %v", seq.Phase(), seq.Done())
	}
}

func TestZeroDelaysFinishImmediately(t *testing.T) {
	seq := Start(&virtualClock{}, AwakeningSteps(0, 0)...)
	if !seq.Done() || seq.Phase() != Summary {
		t.Fatalf("phase = %s", seq.Phase())
	}
}
