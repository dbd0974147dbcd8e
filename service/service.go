package service

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tern/domain/book"
	"tern/feed"
	"tern/infra/journal"
	"tern/infra/outbox"
	"tern/infra/sequence"
)

// Service is the single write entry point into the engine. The journal and
// outbox are optional: nil disables durability or publication without
// touching the event path's semantics.
type Service struct {
	log    zerolog.Logger
	engine *book.Engine
	seqGen *sequence.Sequencer
	wal    *journal.Journal
	box    *outbox.Outbox

	counts map[book.Result]uint64
}

func New(
	log zerolog.Logger,
	engine *book.Engine,
	seqGen *sequence.Sequencer,
	wal *journal.Journal,
	box *outbox.Outbox,
) *Service {
	return &Service{
		log:    log.With().Str("component", "service").Logger(),
		engine: engine,
		seqGen: seqGen,
		wal:    wal,
		box:    box,
		counts: make(map[book.Result]uint64),
	}
}

// Notify applies one event: assign a sequence, record the intent, mutate
// the book, queue any execution for publication. The returned result is
// also tallied for the deferred error report.
func (s *Service) Notify(ev book.Event) book.Result {
	seq := s.seqGen.Next()

	if s.wal != nil {
		rec := journal.NewRecord(kindFor(ev), seq, []byte(feed.Encode(ev)))
		if err := s.wal.Append(rec); err != nil {
			s.log.Error().Err(err).Uint64("seq", seq).Msg("journal append failed")
		}
	}

	res := s.engine.Apply(ev)
	s.counts[res]++

	if res != book.Ok {
		s.log.Debug().
			Uint64("seq", seq).
			Stringer("result", res).
			Str("event", feed.Encode(ev)).
			Msg("event rejected")
		return res
	}

	if tr, ok := ev.(book.Trade); ok && s.box != nil {
		if err := s.box.Put(seq, []byte(feed.Encode(tr))); err != nil {
			s.log.Error().Err(err).Uint64("seq", seq).Msg("outbox put failed")
		}
	}
	return res
}

// Reject tallies a result produced outside the engine, e.g. a corrupt line
// the decoder refused to turn into an event.
func (s *Service) Reject(res book.Result) {
	s.counts[res]++
}

// Counts returns a copy of the per-result tallies.
func (s *Service) Counts() map[book.Result]uint64 {
	out := make(map[book.Result]uint64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// ReportErrors writes the deferred failure summary, one line per non-Ok
// result observed.
func (s *Service) ReportErrors(w io.Writer) {
	for res := book.InvalidOrderID; res <= book.Unknown; res++ {
		if n := s.counts[res]; n > 0 {
			fmt.Fprintf(w, "%s: %d\n", res, n)
		}
	}
}

// Engine exposes the underlying engine for read-only queries.
func (s *Service) Engine() *book.Engine {
	return s.engine
}

func kindFor(ev book.Event) journal.Kind {
	switch ev.(type) {
	case book.NewOrder:
		return journal.KindNew
	case book.AmendOrder:
		return journal.KindAmend
	case book.CancelOrder:
		return journal.KindCancel
	default:
		return journal.KindTrade
	}
}
