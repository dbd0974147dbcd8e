// Package journal is a segmented append-only log of decoded feed events.
// It exists so a restart can rebuild book state by replaying what the
// engine already accepted; it is an adapter beside the engine, never a
// dependency of it.
package journal

import (
	"encoding/binary"
	"hash/crc32"
	"os"
)

// Frame layout: [kind:1][seq:8][time:8][len:4][payload][crc:4], big
// endian. The CRC covers header and payload.
const headerSize = 1 + 8 + 8 + 4

type Config struct {
	Dir         string
	SegmentSize int64
}

type Journal struct {
	dir      string
	segSize  int64
	current  *segment
	segIndex int
}

// Open resumes appending after the highest existing segment so rotated
// history is never overwritten.
func Open(cfg Config) (*Journal, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	idx, err := lastSegmentIndex(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		idx = 0
	}
	seg, err := openSegment(cfg.Dir, idx)
	if err != nil {
		return nil, err
	}

	return &Journal{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		current:  seg,
		segIndex: idx,
	}, nil
}

func (j *Journal) Append(r *Record) error {
	payloadLen := uint32(len(r.Data))
	buf := make([]byte, headerSize+payloadLen+4)

	buf[0] = byte(r.Kind)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[21:], r.Data)

	crc := crc32.ChecksumIEEE(buf[:headerSize+payloadLen])
	binary.BigEndian.PutUint32(buf[headerSize+payloadLen:], crc)

	if err := j.current.append(buf); err != nil {
		return err
	}
	if j.current.offset >= j.segSize {
		return j.rotate()
	}
	return nil
}

func (j *Journal) rotate() error {
	if err := j.current.sync(); err != nil {
		return err
	}
	_ = j.current.close()
	j.segIndex++

	seg, err := openSegment(j.dir, j.segIndex)
	if err != nil {
		return err
	}
	j.current = seg
	return nil
}

func (j *Journal) Sync() error {
	return j.current.sync()
}

func (j *Journal) Close() error {
	_ = j.current.sync()
	return j.current.close()
}

// TruncateBefore removes whole segments whose every record is at or below
// seq. Called after a checkpoint covers them.
func (j *Journal) TruncateBefore(seq uint64) error {
	files, err := segmentFiles(j.dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		if path == j.current.file.Name() {
			continue
		}
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			continue
		}
		if maxSeq <= seq {
			_ = os.Remove(path)
		}
	}
	return nil
}
