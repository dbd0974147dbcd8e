package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic event sequence numbers. Journal
// records and outbox keys are ordered by them.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer resuming from start: 0 on a fresh boot, the last
// replayed sequence after journal replay.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset rewinds or advances the sequencer. Only replay uses it.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}
