// Package reveal paces the awakening and reawakening reveal sequences.
//
// A Sequence is a list of phases, each held for a configured delay before
// the next begins. The current phase is derived from an injected Clock, so
// tests drive it with a virtual clock instead of waiting.
package reveal

import "time"

// Phase names a step of a reveal sequence.
type Phase string

// Awakening phases.
const (
	Intro     Phase = "intro"
	Rolling   Phase = "rolling"
	Revealing Phase = "revealing"
	Summary   Phase = "summary"
)

// Reawakening overlay phases.
const (
	Surge     Phase = "intro"
	StatsRise Phase = "stats"
	RankShift Phase = "rank"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// Step holds Phase for Hold before the next step begins. The hold of the
// last step is ignored; the sequence stays there.
type Step struct {
	Phase Phase
	Hold  time.Duration
}

// Sequence is a running reveal.
type Sequence struct {
	clock   Clock
	steps   []Step
	started time.Time
}

// Start begins a sequence at the clock's current time.
func Start(clock Clock, steps ...Step) *Sequence {
	return &Sequence{clock: clock, steps: steps, started: clock.Now()}
}

// Phase is the current phase.
func (s *Sequence) Phase() Phase {
	i, _ := s.position()
	return s.steps[i].Phase
}

// Done reports whether the final phase has been reached.
func (s *Sequence) Done() bool {
	i, _ := s.position()
	return i == len(s.steps)-1
}

// Remaining is the time until the next transition, zero once done.
func (s *Sequence) Remaining() time.Duration {
	_, left := s.position()
	return left
}

func (s *Sequence) position() (int, time.Duration) {
	elapsed := s.clock.Now().Sub(s.started)
	var boundary time.Duration
	for i, st := range s.steps[:len(s.steps)-1] {
		boundary += st.Hold
		if elapsed < boundary {
			return i, boundary - elapsed
		}
	}
	return len(s.steps) - 1, 0
}

// AwakeningSteps is the roll reveal: rolling, then revealing, then summary.
// The intro phase precedes Start and waits for the player.
func AwakeningSteps(roll, reveal time.Duration) []Step {
	return []Step{
		{Phase: Rolling, Hold: roll},
		{Phase: Revealing, Hold: reveal},
		{Phase: Summary},
	}
}

// ReawakeningSteps is the overlay shown after a rank change.
func ReawakeningSteps(stats, rank time.Duration) []Step {
	return []Step{
		{Phase: Surge, Hold: stats},
		{Phase: StatsRise, Hold: rank},
		{Phase: RankShift},
	}
}
