package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	namePrefix  = "expenses_backup_"
	nameSuffix  = ".duckdb"
	metaSuffix  = ".meta.yaml"
	stampLayout = "20060102_150405"

	AutoRetentionDays = 30
	AutoKeepMinimum   = 5
)

var (
	ErrLedgerNotFound = errors.New("ledger file not found")
	ErrBackupNotFound = errors.New("backup not found")
)

// RecordCounter counts the expenses stored in a ledger file.
type RecordCounter func(path string) (int, error)

// Backup describes one backup file.
type Backup struct {
	Path        string
	Name        string
	CreatedAt   time.Time
	Size        int64
	Description string
}

// Info is a Backup plus the number of records it holds.
type Info struct {
	Backup
	Records int
}

// Metadata is written next to every backup.
type Metadata struct {
	Created     string `yaml:"created"`
	Description string `yaml:"description,omitempty"`
	Source      string `yaml:"source"`
}

// Manager creates and restores copies of one ledger file.
type Manager struct {
	ledgerPath string
	dir        string
	counter    RecordCounter
	now        func() time.Time
	log        zerolog.Logger
}

type Option func(*Manager)

func WithCounter(c RecordCounter) Option {
	return func(m *Manager) { m.counter = c }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func NewManager(ledgerPath, dir string, opts ...Option) *Manager {
	m := &Manager{
		ledgerPath: ledgerPath,
		dir:        dir,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string { return m.dir }

func backupName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%s_%06d%s", namePrefix, t.Format(stampLayout), t.Nanosecond()/1000, nameSuffix)
}

func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, nameSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), nameSuffix)
	if len(stamp) != len(stampLayout)+7 || stamp[len(stampLayout)] != '_' {
		return time.Time{}, false
	}
	t, err := time.Parse(stampLayout, stamp[:len(stampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	micros, err := strconv.Atoi(stamp[len(stampLayout)+1:])
	if err != nil || micros < 0 {
		return time.Time{}, false
	}
	return t.Add(time.Duration(micros) * time.Microsecond), true
}

// Create copies the ledger into the backup directory.
func (m *Manager) Create(description string) (Backup, error) {
	if _, err := os.Stat(m.ledgerPath); err != nil {
		return Backup{}, fmt.Errorf("%w: %s", ErrLedgerNotFound, m.ledgerPath)
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return Backup{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	created := m.now().UTC()
	path := filepath.Join(m.dir, backupName(created))
	size, err := copyFile(m.ledgerPath, path)
	if err != nil {
		os.Remove(path)
		return Backup{}, fmt.Errorf("failed to create backup: %w", err)
	}

	meta := Metadata{
		Created:     created.Format(time.RFC3339),
		Description: strings.TrimSpace(description),
		Source:      m.ledgerPath,
	}
	if err := writeMetadata(path, meta); err != nil {
		os.Remove(path)
		return Backup{}, err
	}

	m.log.Info().Str("path", path).Int64("size", size).Msg("backup created")
	return Backup{Path: path, Name: filepath.Base(path), CreatedAt: created, Size: size, Description: meta.Description}, nil
}

// List returns every backup, newest first.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Backup
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		created, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		b := Backup{Path: path, Name: entry.Name(), CreatedAt: created, Size: info.Size()}
		if meta, err := readMetadata(path); err == nil {
			b.Description = meta.Description
		}
		backups = append(backups, b)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Resolve accepts a backup path or a bare backup file name.
func (m *Manager) Resolve(ref string) (string, error) {
	path := ref
	if !strings.ContainsRune(ref, os.PathSeparator) {
		path = filepath.Join(m.dir, ref)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrBackupNotFound, ref)
	}
	return path, nil
}

// Restore replaces the ledger with a backup after taking a safety backup of
// the current ledger. The ledger must not be open while this runs.
func (m *Manager) Restore(ref string) (safety *Backup, err error) {
	path, err := m.Resolve(ref)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(m.ledgerPath); statErr == nil {
		b, err := m.Create("Safety backup before restore")
		if err != nil {
			return nil, fmt.Errorf("failed to create safety backup: %w", err)
		}
		safety = &b
	}

	if err := os.MkdirAll(filepath.Dir(m.ledgerPath), 0755); err != nil {
		return safety, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	if _, err := copyFile(path, m.ledgerPath); err != nil {
		return safety, fmt.Errorf("failed to restore backup: %w", err)
	}
	// A stale write-ahead log would be replayed over the restored file.
	if err := os.Remove(m.ledgerPath + ".wal"); err != nil && !os.IsNotExist(err) {
		return safety, fmt.Errorf("failed to remove stale wal: %w", err)
	}

	m.log.Info().Str("from", path).Str("to", m.ledgerPath).Msg("backup restored")
	return safety, nil
}

// Delete removes a backup and its metadata. It reports false when there was
// nothing to delete.
func (m *Manager) Delete(ref string) (bool, error) {
	path, err := m.Resolve(ref)
	if err != nil {
		if errors.Is(err, ErrBackupNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete backup: %w", err)
	}
	if err := os.Remove(path + metaSuffix); err != nil && !os.IsNotExist(err) {
		m.log.Warn().Err(err).Str("path", path).Msg("failed to delete backup metadata")
	}
	return true, nil
}

// Cleanup deletes backups older than days, always keeping the keepMinimum
// most recent ones. It returns how many were deleted.
func (m *Manager) Cleanup(days, keepMinimum int) (int, error) {
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	cutoff := m.now().UTC().AddDate(0, 0, -days)

	deleted := 0
	for i, b := range backups {
		if i < keepMinimum || !b.CreatedAt.Before(cutoff) {
			continue
		}
		ok, err := m.Delete(b.Path)
		if err != nil {
			m.log.Warn().Err(err).Str("path", b.Path).Msg("cleanup failed")
			continue
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

// Info describes a backup, counting its records when a counter is set.
func (m *Manager) Info(ref string) (Info, error) {
	path, err := m.Resolve(ref)
	if err != nil {
		return Info{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	info := Info{Backup: Backup{Path: path, Name: filepath.Base(path), Size: st.Size(), CreatedAt: st.ModTime().UTC()}, Records: -1}
	if created, ok := parseBackupName(info.Name); ok {
		info.CreatedAt = created
	}
	if meta, err := readMetadata(path); err == nil {
		info.Description = meta.Description
	}
	if m.counter != nil {
		n, err := m.counter(path)
		if err != nil {
			return info, fmt.Errorf("could not read backup records: %w", err)
		}
		info.Records = n
	}
	return info, nil
}

// Automatic creates a backup and prunes old ones.
func (m *Manager) Automatic(description string) (Backup, error) {
	if description == "" {
		description = "Automatic backup"
	}
	b, err := m.Create(description)
	if err != nil {
		return Backup{}, err
	}
	if _, err := m.Cleanup(AutoRetentionDays, AutoKeepMinimum); err != nil {
		m.log.Warn().Err(err).Msg("automatic cleanup failed")
	}
	return b, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}

func writeMetadata(backupPath string, meta Metadata) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal backup metadata: %w", err)
	}
	if err := os.WriteFile(backupPath+metaSuffix, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup metadata: %w", err)
	}
	return nil
}

func readMetadata(backupPath string) (Metadata, error) {
	var meta Metadata
	data, err := os.ReadFile(backupPath + metaSuffix)
	if err != nil {
		return meta, err
	}
	err = yaml.Unmarshal(data, &meta)
	return meta, err
}
