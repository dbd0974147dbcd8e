package service

import (
	"tern/infra/checkpoint"
)

// Checkpoint writes a point-in-time copy of resting state, then prunes the
// journal segments and acked outbox records it now covers.
//
// The engine is single-writer, so this runs synchronously between events,
// never concurrently with Notify.
func (s *Service) Checkpoint(dir string) error {
	seq := s.seqGen.Current()
	w := &checkpoint.Writer{Dir: dir}
	if err := w.Write(seq, s.engine); err != nil {
		return err
	}

	if s.wal != nil {
		if err := s.wal.TruncateBefore(seq); err != nil {
			s.log.Warn().Err(err).Msg("journal truncate failed")
		}
	}
	if s.box != nil {
		if err := s.box.TruncateAckedUpTo(seq); err != nil {
			s.log.Warn().Err(err).Msg("outbox truncate failed")
		}
	}
	s.log.Info().Uint64("seq", seq).Msg("checkpoint written")
	return nil
}
