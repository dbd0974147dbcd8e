package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const segmentPattern = "segment-*.wal"

type segment struct {
	file   *os.File
	offset int64
}

func openSegment(dir string, index int) (*segment, error) {
	path := filepath.Join(dir, fmt.Sprintf("segment-%06d.wal", index))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{file: f, offset: info.Size()}, nil
}

func (s *segment) append(b []byte) error {
	n, err := s.file.Write(b)
	if err != nil {
		return err
	}
	s.offset += int64(n)
	return nil
}

func (s *segment) sync() error {
	return s.file.Sync()
}

func (s *segment) close() error {
	return s.file.Close()
}

// segmentFiles lists a directory's segments in index order.
func segmentFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, segmentPattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// lastSegmentIndex finds where appending should resume after a restart.
// Returns -1 for an empty directory.
func lastSegmentIndex(dir string) (int, error) {
	files, err := segmentFiles(dir)
	if err != nil {
		return -1, err
	}
	last := -1
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".wal")
		name = strings.TrimPrefix(name, "segment-")
		idx, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		if idx > last {
			last = idx
		}
	}
	return last, nil
}
