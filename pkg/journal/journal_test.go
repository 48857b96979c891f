package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestAppendAndRecent(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Append(Entry{MessageID: "m1", Outcome: "filed", Detail: "card #42"}))
	require.NoError(t, j.Append(Entry{MessageID: "m2", Outcome: "cancelled"}))

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "m2", entries[0].MessageID)
	assert.Equal(t, "cancelled", entries[0].Outcome)
	assert.Equal(t, "m1", entries[1].MessageID)
	assert.Equal(t, "card #42", entries[1].Detail)

	for _, e := range entries {
		assert.NotEmpty(t, e.UID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Append(Entry{MessageID: "m", Outcome: "filed"}))
	}

	entries, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestOpenAppliesPragmas(t *testing.T) {
	j := openTestJournal(t)

	var mode string
	require.NoError(t, j.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var busy int
	require.NoError(t, j.db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 5000, busy)
}

func TestAppendValidation(t *testing.T) {
	j := openTestJournal(t)

	assert.Error(t, j.Append(Entry{Outcome: "filed"}))
	assert.Error(t, j.Append(Entry{MessageID: "m1"}))
}
