package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"iter"
	"os"

	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// maxSnapshotLine bounds a single NDJSON line; full books with trades can be large.
const maxSnapshotLine = 16 * 1024 * 1024

// Source yields snapshots in timestamp order.
type Source interface {
	// Count returns the number of snapshots the source will yield.
	Count() (int, error)
	// ReadAll yields every snapshot. Iteration stops at the first error or when ctx is done.
	ReadAll(ctx context.Context) iter.Seq2[types.Snapshot, error]
	// Close releases the source.
	Close() error
}

// NDJSONSource reads one JSON snapshot per line from a file.
type NDJSONSource struct {
	path string
}

// NewNDJSONSource returns a source over the newline-delimited JSON file at path.
func NewNDJSONSource(path string) (*NDJSONSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReplaySourceFailed, err, "failed to open snapshot file %s", path)
	}

	if info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeReplaySourceFailed, "snapshot path %s is a directory", path)
	}

	return &NDJSONSource{path: path}, nil
}

// Count counts the non-empty lines of the file.
func (s *NDJSONSource) Count() (int, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeReplaySourceFailed, err, "failed to open snapshot file %s", s.path)
	}
	defer file.Close()

	scanner := newLineScanner(file)
	count := 0

	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeReplaySourceFailed, "failed to scan snapshot file", err)
	}

	return count, nil
}

// ReadAll decodes the file line by line.
func (s *NDJSONSource) ReadAll(ctx context.Context) iter.Seq2[types.Snapshot, error] {
	return func(yield func(types.Snapshot, error) bool) {
		file, err := os.Open(s.path)
		if err != nil {
			yield(types.Snapshot{}, errors.Wrapf(errors.ErrCodeReplaySourceFailed, err, "failed to open snapshot file %s", s.path))

			return
		}
		defer file.Close()

		scanner := newLineScanner(file)
		line := 0

		for scanner.Scan() {
			line++

			if err := ctx.Err(); err != nil {
				yield(types.Snapshot{}, err)

				return
			}

			raw := scanner.Bytes()
			if len(raw) == 0 {
				continue
			}

			var snapshot types.Snapshot
			if err := json.Unmarshal(raw, &snapshot); err != nil {
				yield(types.Snapshot{}, errors.Wrapf(errors.ErrCodeReplayDecodeFailed, err, "failed to decode snapshot on line %d", line))

				return
			}

			if !yield(snapshot, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(types.Snapshot{}, errors.Wrap(errors.ErrCodeReplaySourceFailed, "failed to scan snapshot file", err))
		}
	}
}

// Close is a no-op; ReadAll opens and closes the file itself.
func (s *NDJSONSource) Close() error {
	return nil
}

// SliceSource replays snapshots held in memory.
type SliceSource struct {
	snapshots []types.Snapshot
}

// NewSliceSource returns a source over snapshots.
func NewSliceSource(snapshots []types.Snapshot) *SliceSource {
	return &SliceSource{snapshots: snapshots}
}

func (s *SliceSource) Count() (int, error) {
	return len(s.snapshots), nil
}

func (s *SliceSource) ReadAll(ctx context.Context) iter.Seq2[types.Snapshot, error] {
	return func(yield func(types.Snapshot, error) bool) {
		for _, snapshot := range s.snapshots {
			if err := ctx.Err(); err != nil {
				yield(types.Snapshot{}, err)

				return
			}

			if !yield(snapshot, nil) {
				return
			}
		}
	}
}

func (s *SliceSource) Close() error {
	return nil
}

// WriteSnapshots writes snapshots to w as newline-delimited JSON.
func WriteSnapshots(w io.Writer, snapshots []types.Snapshot) error {
	encoder := json.NewEncoder(w)

	for i, snapshot := range snapshots {
		if err := encoder.Encode(snapshot); err != nil {
			return errors.Wrapf(errors.ErrCodeReplaySourceFailed, err, "failed to encode snapshot %d", i)
		}
	}

	return nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSnapshotLine)

	return scanner
}
