package boltdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_MarkAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := NewLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	checkedIn, err := ledger.IsCheckedIn("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.False(t, checkedIn)

	require.NoError(t, ledger.MarkCheckedIn("emp-1", "2026-03-02", 42))

	checkedIn, err = ledger.IsCheckedIn("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.True(t, checkedIn)

	checkedOut, err := ledger.IsCheckedOut("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.False(t, checkedOut)
}

// Check-out replaces the check-in marker for the same key
func TestLedger_MarkCheckedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := NewLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	require.NoError(t, ledger.MarkCheckedIn("emp-1", "2026-03-02", 42))
	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-03-02", 42))

	checkedIn, err := ledger.IsCheckedIn("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.False(t, checkedIn)

	checkedOut, err := ledger.IsCheckedOut("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.True(t, checkedOut)

	// Repeating the call leaves the ledger unchanged
	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-03-02", 42))
	checkedOut, err = ledger.IsCheckedOut("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.True(t, checkedOut)
}

// Markers survive closing and reopening the file
func TestLedger_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	ledger, err := NewLedger(path)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-03-02", 42))
	require.NoError(t, ledger.Close())

	reopened, err := NewLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	checkedOut, err := reopened.IsCheckedOut("emp-1", "2026-03-02", 42)
	require.NoError(t, err)
	assert.True(t, checkedOut)
}

// Markers are scoped per employee, day and shift
func TestLedger_KeyIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := NewLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-03-02", 42))

	for _, tc := range []struct {
		employeeID string
		day        string
		shiftID    int64
	}{
		{"emp-2", "2026-03-02", 42},
		{"emp-1", "2026-03-03", 42},
		{"emp-1", "2026-03-02", 43},
	} {
		checkedOut, err := ledger.IsCheckedOut(tc.employeeID, tc.day, tc.shiftID)
		require.NoError(t, err)
		assert.False(t, checkedOut, "marker leaked to %s/%s/%d", tc.employeeID, tc.day, tc.shiftID)
	}
}

func TestLedger_Prune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := NewLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-02-01", 1))
	require.NoError(t, ledger.MarkCheckedOut("emp-1", "2026-02-20", 2))
	require.NoError(t, ledger.MarkCheckedIn("emp-1", "2026-02-01", 3))
	require.NoError(t, ledger.MarkCheckedOut("emp-2", "2026-03-02", 4))

	cutoff, err := time.Parse("2006-01-02", "2026-02-15")
	require.NoError(t, err)

	removed, err := ledger.Prune(cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	old, err := ledger.IsCheckedOut("emp-1", "2026-02-01", 1)
	require.NoError(t, err)
	assert.False(t, old)

	kept, err := ledger.IsCheckedOut("emp-1", "2026-02-20", 2)
	require.NoError(t, err)
	assert.True(t, kept)

	recent, err := ledger.IsCheckedOut("emp-2", "2026-03-02", 4)
	require.NoError(t, err)
	assert.True(t, recent)
}
