package usecase

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

// RecordSet is a deduplicated, sorted set of canonical record lines.
type RecordSet struct {
	lines []string
}

// Normalize renders events as canonical records, drops exact duplicates and
// sorts the result. Sorting compares whole lines as strings, so points order
// as text ("-1" < "-2" < "1"); existing record files depend on this order.
func Normalize(events []domain.ReactionEvent) RecordSet {
	seen := make(map[string]struct{}, len(events))
	lines := make([]string, 0, len(events))
	for _, e := range events {
		line := e.Record()
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return RecordSet{lines: lines}
}

// Merge combines two record sets. Merging a set with itself returns an equal set.
func (s RecordSet) Merge(other RecordSet) RecordSet {
	seen := make(map[string]struct{}, len(s.lines)+len(other.lines))
	lines := make([]string, 0, len(s.lines)+len(other.lines))
	for _, src := range [][]string{s.lines, other.lines} {
		for _, line := range src {
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			lines = append(lines, line)
		}
	}
	sort.Strings(lines)
	return RecordSet{lines: lines}
}

// Len returns the number of data records.
func (s RecordSet) Len() int {
	return len(s.lines)
}

// Lines returns a copy of the data records, without the header.
func (s RecordSet) Lines() []string {
	return append([]string(nil), s.lines...)
}

// String renders the header followed by every record, newline separated.
func (s RecordSet) String() string {
	return strings.Join(append([]string{domain.RecordHeader}, s.lines...), "\n")
}

// ReadRecords reads canonical record text, e.g. a file written by a previous run.
func ReadRecords(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read records: %w", err)
	}
	return string(data), nil
}

// ReadRecordFile reads canonical record text from path.
// A missing file yields an error matching os.ErrNotExist.
func ReadRecordFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}
