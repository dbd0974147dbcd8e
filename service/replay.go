package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"tern/domain/book"
	"tern/feed"
	"tern/infra/journal"
	"tern/infra/sequence"
)

// Replay rebuilds engine state from the journal before traffic is
// accepted. Records at or below afterSeq (already covered by a
// checkpoint) are skipped. The sequencer resumes past the last record so
// new events never reuse a journaled sequence.
func Replay(
	log zerolog.Logger,
	dir string,
	eng *book.Engine,
	seqGen *sequence.Sequencer,
	afterSeq uint64,
) error {
	replayed := 0
	lastSeq, err := journal.Replay(dir, func(rec *journal.Record) error {
		if rec.Seq <= afterSeq {
			return nil
		}
		ev, code := feed.DecodeLine(string(rec.Data))
		if code != book.Ok {
			return fmt.Errorf("replay: undecodable record seq %d: %s", rec.Seq, code)
		}
		// Rejections were rejected live too; replay just repeats them.
		eng.Apply(ev)
		replayed++
		return nil
	})
	if err != nil {
		return err
	}

	if lastSeq < afterSeq {
		lastSeq = afterSeq
	}
	seqGen.Reset(lastSeq)

	log.Info().
		Int("events", replayed).
		Uint64("last_seq", lastSeq).
		Msg("journal replay complete")
	return nil
}
