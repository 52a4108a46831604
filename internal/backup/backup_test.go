package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*Manager, *fakeClock, string) {
	t.Helper()
	root := t.TempDir()
	ledger := filepath.Join(root, "expenses.duckdb")
	require.NoError(t, os.WriteFile(ledger, []byte("v1"), 0644))

	clock := &fakeClock{t: time.Date(2026, 1, 3, 12, 30, 0, 123456000, time.UTC)}
	counter := func(path string) (int, error) {
		data, err := os.ReadFile(path)
		return len(data), err
	}
	m := NewManager(ledger, filepath.Join(root, "backups"), WithClock(clock.now), WithCounter(counter))
	return m, clock, ledger
}

func TestBackupName_RoundTrip(t *testing.T) {
	at := time.Date(2026, 1, 3, 12, 30, 5, 42000, time.UTC)
	name := backupName(at)
	assert.Equal(t, "expenses_backup_20260103_123005_000042.duckdb", name)

	parsed, ok := parseBackupName(name)
	require.True(t, ok)
	assert.True(t, at.Equal(parsed))

	for _, bad := range []string{"expenses_backup_x.duckdb", "other.duckdb", "expenses_backup_20260103_123005_000042.db", "expenses_backup_20260103_123005.duckdb"} {
		_, ok := parseBackupName(bad)
		assert.False(t, ok, bad)
	}
}

func TestCreateAndList(t *testing.T) {
	m, clock, _ := setup(t)

	first, err := m.Create("before import")
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Size)
	assert.FileExists(t, first.Path+metaSuffix)

	clock.advance(time.Minute)
	second, err := m.Create("")
	require.NoError(t, err)

	backups, err := m.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second.Name, backups[0].Name, "newest first")
	assert.Equal(t, "before import", backups[1].Description)
	assert.Empty(t, backups[0].Description)
}

func TestCreate_MissingLedger(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none.duckdb"), t.TempDir())
	_, err := m.Create("")
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

func TestList_MissingDir(t *testing.T) {
	m := NewManager("ledger", filepath.Join(t.TempDir(), "absent"))
	backups, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestRestore(t *testing.T) {
	m, clock, ledger := setup(t)

	old, err := m.Create("v1")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(ledger, []byte("v2-longer"), 0644))
	require.NoError(t, os.WriteFile(ledger+".wal", []byte("stale"), 0644))
	clock.advance(time.Second)

	safety, err := m.Restore(old.Name)
	require.NoError(t, err)
	require.NotNil(t, safety)
	assert.Equal(t, "Safety backup before restore", safety.Description)

	data, err := os.ReadFile(ledger)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	assert.NoFileExists(t, ledger+".wal")

	saved, err := os.ReadFile(safety.Path)
	require.NoError(t, err)
	assert.Equal(t, "v2-longer", string(saved))

	_, err = m.Restore("expenses_backup_missing.duckdb")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestDelete(t *testing.T) {
	m, _, _ := setup(t)
	b, err := m.Create("x")
	require.NoError(t, err)

	ok, err := m.Delete(b.Path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoFileExists(t, b.Path)
	assert.NoFileExists(t, b.Path+metaSuffix)

	ok, err = m.Delete(b.Path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanup_KeepsMinimum(t *testing.T) {
	m, clock, _ := setup(t)
	for i := 0; i < 6; i++ {
		_, err := m.Create("")
		require.NoError(t, err)
		clock.advance(24 * time.Hour)
	}
	// Backups are now 6, 5, 4, 3, 2 and 1 days old.

	deleted, err := m.Cleanup(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	backups, err := m.List()
	require.NoError(t, err)
	assert.Len(t, backups, 3)

	deleted, err = m.Cleanup(0, 10)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestInfo(t *testing.T) {
	m, _, _ := setup(t)
	b, err := m.Create("note")
	require.NoError(t, err)

	info, err := m.Info(b.Name)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Records)
	assert.Equal(t, "note", info.Description)
	assert.True(t, b.CreatedAt.Equal(info.CreatedAt))

	_, err = m.Info("nope")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestAutomatic(t *testing.T) {
	m, clock, _ := setup(t)
	for i := 0; i < AutoKeepMinimum+2; i++ {
		_, err := m.Create("")
		require.NoError(t, err)
		clock.advance(time.Hour)
	}
	clock.advance(time.Duration(AutoRetentionDays+1) * 24 * time.Hour)

	b, err := m.Automatic("")
	require.NoError(t, err)
	assert.Equal(t, "Automatic backup", b.Description)

	backups, err := m.List()
	require.NoError(t, err)
	assert.Len(t, backups, AutoKeepMinimum)
	assert.Equal(t, b.Name, backups[0].Name)
}
