package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

func TestNormalize(t *testing.T) {
	other := domain.Repository{Owner: "a", Name: "a"}
	events := []domain.ReactionEvent{
		event("2025-05-02", "bob", 1),
		event("2025-05-01", "alice", 3),
		event("2025-05-01", "alice", -1),
		event("2025-05-01", "alice", 3),
		event("2025-05-01", "alice", -2),
		{Date: "2025-05-01", Repository: other, User: "zed", Points: 2},
	}

	records := Normalize(events)

	assert.Equal(t, 5, records.Len())
	// Whole-line string order: "-1" < "-2" < "3".
	assert.Equal(t, strings.Join([]string{
		"date,repository,user,points",
		"2025-05-01,a/a,zed,2",
		"2025-05-01,a/b,alice,-1",
		"2025-05-01,a/b,alice,-2",
		"2025-05-01,a/b,alice,3",
		"2025-05-02,a/b,bob,1",
	}, "\n"), records.String())
}

func TestNormalize_Empty(t *testing.T) {
	records := Normalize(nil)
	assert.Zero(t, records.Len())
	assert.Equal(t, domain.RecordHeader, records.String())
}

func TestRecordSet_Merge(t *testing.T) {
	a := Normalize([]domain.ReactionEvent{event("2025-05-01", "alice", 3), event("2025-05-03", "carol", 1)})
	b := Normalize([]domain.ReactionEvent{event("2025-05-02", "bob", 2), event("2025-05-01", "alice", 3)})

	merged := a.Merge(b)
	assert.Equal(t, []string{
		"2025-05-01,a/b,alice,3",
		"2025-05-02,a/b,bob,2",
		"2025-05-03,a/b,carol,1",
	}, merged.Lines())
	assert.Equal(t, merged, merged.Merge(merged))
	assert.Equal(t, a, a.Merge(a))
}

func TestReadRecords_RoundTrip(t *testing.T) {
	records := Normalize([]domain.ReactionEvent{
		event("2025-05-01", "alice", 3),
		event("2025-05-01", "bob", -2),
		event("2025-05-02", "alice", 1),
	})

	text, err := ReadRecords(strings.NewReader(records.String() + "\n"))
	require.NoError(t, err)

	direct, err := newTestAggregator().Summarize(records.String(), nil)
	require.NoError(t, err)
	fromFile, err := newTestAggregator().Summarize(text, nil)
	require.NoError(t, err)
	assert.Equal(t, direct, fromFile)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadRecords_Error(t *testing.T) {
	_, err := ReadRecords(failingReader{})
	assert.ErrorContains(t, err, "failed to read records")
}

func TestReadRecordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactions.csv")
	content := csv("2025-05-01,a/b,alice,3")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	text, err := ReadRecordFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestReadRecordFile_Missing(t *testing.T) {
	_, err := ReadRecordFile(filepath.Join(t.TempDir(), "non_existent_file.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
