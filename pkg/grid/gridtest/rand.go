// Package gridtest provides deterministic random sources for tests.
package gridtest

// Sequence is a grid.Rand that replays fixed indices. Each value is reduced
// modulo n, and the sequence wraps around when exhausted. An empty Sequence
// always returns 0.
type Sequence struct {
	Values []int
	calls  int
	next   int
}

// NewSequence returns a Sequence replaying values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{Values: values}
}

// IntN implements grid.Rand.
func (s *Sequence) IntN(n int) int {
	s.calls++
	if len(s.Values) == 0 || n <= 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many times IntN has been invoked.
func (s *Sequence) Calls() int {
	return s.calls
}

// Last is a grid.Rand that always picks the last candidate.
type Last struct{}

// IntN implements grid.Rand.
func (Last) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
