package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

type ReplayHandler func(*Record) error

// Replay walks every segment in order and hands each record to fn.
// Sequence numbers must be strictly increasing across the whole log; a
// regression means mixed-up segment files and aborts the replay.
func Replay(dir string, fn ReplayHandler) (lastSeq uint64, err error) {
	files, err := segmentFiles(dir)
	if err != nil {
		return 0, err
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return lastSeq, err
		}

		for {
			rec, err := readRecord(f)
			if err != nil {
				if err == io.EOF {
					break
				}
				_ = f.Close()
				return lastSeq, fmt.Errorf("journal: %s: %w", path, err)
			}

			if rec.Seq <= lastSeq {
				_ = f.Close()
				return lastSeq, fmt.Errorf("journal: non-monotonic seq %d in %s", rec.Seq, path)
			}
			lastSeq = rec.Seq

			if err := fn(rec); err != nil {
				_ = f.Close()
				return lastSeq, err
			}
		}
		_ = f.Close()
	}

	return lastSeq, nil
}

func readRecord(r io.Reader) (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	k := Kind(header[0])
	seq := binary.BigEndian.Uint64(header[1:9])
	ts := binary.BigEndian.Uint64(header[9:17])
	payloadLen := binary.BigEndian.Uint32(header[17:21])

	rest := make([]byte, payloadLen+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	payload := rest[:payloadLen]
	crc := binary.BigEndian.Uint32(rest[payloadLen:])
	if crc32.ChecksumIEEE(append(header, payload...)) != crc {
		return nil, fmt.Errorf("crc mismatch at seq %d", seq)
	}

	return &Record{
		Kind: k,
		Seq:  seq,
		Time: int64(ts),
		Data: payload,
	}, nil
}
