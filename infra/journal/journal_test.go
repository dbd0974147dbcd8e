package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReplay(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(Config{Dir: dir, SegmentSize: 1 << 20})
	require.NoError(t, err)

	want := []string{"N,1,10,B,5,100", "M,10,B,7,101", "X,1,7,101"}
	kinds := []Kind{KindNew, KindAmend, KindTrade}
	for i, line := range want {
		require.NoError(t, j.Append(NewRecord(kinds[i], uint64(i+1), []byte(line))))
	}
	require.NoError(t, j.Close())

	var got []string
	last, err := Replay(dir, func(r *Record) error {
		assert.Equal(t, kinds[len(got)], r.Kind)
		got = append(got, string(r.Data))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
	assert.Equal(t, want, got)
}

func TestReopenResumesAppending(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(Config{Dir: dir, SegmentSize: 1 << 20})
	require.NoError(t, err)
	require.NoError(t, j.Append(NewRecord(KindNew, 1, []byte("a"))))
	require.NoError(t, j.Close())

	j, err = Open(Config{Dir: dir, SegmentSize: 1 << 20})
	require.NoError(t, err)
	require.NoError(t, j.Append(NewRecord(KindNew, 2, []byte("b"))))
	require.NoError(t, j.Close())

	var seqs []uint64
	_, err = Replay(dir, func(r *Record) error {
		seqs = append(seqs, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, seqs)
}

func TestRotationAndTruncate(t *testing.T) {
	dir := t.TempDir()
	// Tiny segments so every append rotates.
	j, err := Open(Config{Dir: dir, SegmentSize: 1})
	require.NoError(t, err)
	for seq := uint64(1); seq <= 4; seq++ {
		require.NoError(t, j.Append(NewRecord(KindNew, seq, []byte(fmt.Sprintf("rec-%d", seq)))))
	}

	files, err := segmentFiles(dir)
	require.NoError(t, err)
	require.Greater(t, len(files), 1)

	// Everything at or below seq 3 lives in non-current segments.
	require.NoError(t, j.TruncateBefore(3))

	var seqs []uint64
	_, err = Replay(dir, func(r *Record) error {
		seqs = append(seqs, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, seqs)
	require.NoError(t, j.Close())
}

func TestReplayDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(Config{Dir: dir, SegmentSize: 1 << 20})
	require.NoError(t, err)
	require.NoError(t, j.Append(NewRecord(KindNew, 1, []byte("clean payload"))))
	require.NoError(t, j.Close())

	files, err := segmentFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// Flip a payload byte; the CRC check must catch it.
	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	raw[headerSize] ^= 0xff
	require.NoError(t, os.WriteFile(files[0], raw, 0o644))

	_, err = Replay(dir, func(*Record) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crc mismatch")
}

func TestReplayEmptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	last, err := Replay(dir, func(*Record) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, last)
}
