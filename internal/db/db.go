package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ishaan812/spendlog/internal/config"

	_ "github.com/marcboeker/go-duckdb"
)

// ledgerManager keeps one open connection per ledger file. A DuckDB file can
// only be opened once per process, so every caller shares it.
type ledgerManager struct {
	connections   map[string]*sql.DB // keyed by file path
	activeProfile string
	customPath    string // set by --db; overrides the profile ledger
	mu            sync.RWMutex
}

var (
	manager     *ledgerManager
	managerOnce sync.Once
)

func getManager() *ledgerManager {
	managerOnce.Do(func() {
		manager = &ledgerManager{
			connections:   make(map[string]*sql.DB),
			activeProfile: "default",
		}
	})
	return manager
}

// SetDBPath makes GetDB use the ledger at path instead of the profile's.
func SetDBPath(path string) {
	m := getManager()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customPath = path
}

// SetActiveProfile selects whose ledger GetDB opens.
func SetActiveProfile(name string) {
	m := getManager()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeProfile = name
}

func GetActiveProfile() string {
	m := getManager()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeProfile
}

// ActivePath returns the ledger file GetDB would open.
func ActivePath() string {
	m := getManager()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.customPath != "" {
		return m.customPath
	}
	return config.GetProfileDBPath(m.activeProfile)
}

// GetDB returns the connection to the active ledger, opening it on first use.
func GetDB() (*sql.DB, error) {
	return GetDBForPath(ActivePath())
}

func GetDBForProfile(name string) (*sql.DB, error) {
	return GetDBForPath(config.GetProfileDBPath(name))
}

// GetDBForPath opens the ledger at path, creating the file and its schema if
// needed.
func GetDBForPath(path string) (*sql.DB, error) {
	m := getManager()

	m.mu.RLock()
	conn, ok := m.connections[path]
	m.mu.RUnlock()
	if ok {
		return conn, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.connections[path]; ok {
		return conn, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	conn, err := openLedger(path)
	if err != nil {
		return nil, err
	}
	m.connections[path] = conn
	return conn, nil
}

func openLedger(path string) (*sql.DB, error) {
	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return conn, nil
}

// Close closes every open ledger.
func Close() error {
	m := getManager()
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for path, conn := range m.connections {
		if err := conn.Close(); err != nil {
			lastErr = err
		}
		delete(m.connections, path)
	}
	return lastErr
}

func CloseProfile(name string) error {
	return ClosePath(config.GetProfileDBPath(name))
}

// ClosePath closes the ledger at path if it is open. A ledger must be closed
// before its file is replaced on disk.
func ClosePath(path string) error {
	m := getManager()
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.connections[path]
	if !ok {
		return nil
	}
	delete(m.connections, path)
	return conn.Close()
}

// CloseActive closes whichever ledger GetDB returns.
func CloseActive() error {
	return ClosePath(ActivePath())
}
