package zones

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// canonicalAreas are the top-level directories of the tz database that hold
// geographic Area/Location names. Top-level link directories (US/, Canada/,
// posix/, right/) and Etc/GMT±N entries are left out. Backward links inside
// these areas, such as America/Buenos_Aires, are dropped by the root's
// zone tables.
var canonicalAreas = map[string]bool{
	"Africa":     true,
	"America":    true,
	"Antarctica": true,
	"Arctic":     true,
	"Asia":       true,
	"Atlantic":   true,
	"Australia":  true,
	"Europe":     true,
	"Indian":     true,
	"Pacific":    true,
}

// extraNames are kept even though they sit outside canonicalAreas.
var extraNames = map[string]bool{
	"Etc/UTC": true,
}

// DefaultRoots lists the zoneinfo directories searched on the host, $ZONEINFO first.
func DefaultRoots() []string {
	roots := []string{
		"/usr/share/zoneinfo",
		"/usr/lib/zoneinfo",
		"/usr/share/lib/zoneinfo",
		"/etc/zoneinfo",
	}
	if env := os.Getenv("ZONEINFO"); env != "" {
		roots = append([]string{env}, roots...)
	}
	return roots
}

// zoneTables list the canonical zones of a tz database root. Backward links
// appear in neither.
var zoneTables = []string{"zone1970.tab", "zone.tab"}

// discoverNames walks every existing root and collects canonical zone names.
// When the root carries zone tables only the names they list (plus
// extraNames) are kept. The first root that yields names wins.
func discoverNames(roots []string, logger zerolog.Logger) []string {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		listed := tabNames(root, logger)
		var names []string
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if !strings.Contains(rel, "/") && !canonicalAreas[rel] && rel != "Etc" {
					return filepath.SkipDir
				}
				return nil
			}
			if isZoneName(rel) && (listed == nil || listed[rel] || extraNames[rel]) {
				names = append(names, rel)
			}
			return nil
		})
		if walkErr != nil {
			logger.Debug().Str("root", root).Err(walkErr).Msg("zoneinfo walk failed")
			continue
		}
		if len(names) > 0 {
			sort.Strings(names)
			logger.Debug().Str("root", root).Int("names", len(names)).Msg("zoneinfo root selected")
			return names
		}
	}
	return nil
}

// tabNames reads the zone column of root's zone tables. It returns nil when
// no table lists anything, in which case every walked name is kept.
func tabNames(root string, logger zerolog.Logger) map[string]bool {
	var listed map[string]bool
	for _, table := range zoneTables {
		f, err := os.Open(filepath.Join(root, table))
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "#") {
				continue
			}
			fields := strings.Split(line, "\t")
			if len(fields) < 3 || fields[2] == "" {
				continue
			}
			if listed == nil {
				listed = make(map[string]bool)
			}
			listed[strings.TrimSpace(fields[2])] = true
		}
		if err := scanner.Err(); err != nil {
			logger.Debug().Str("table", table).Err(err).Msg("zone table read failed")
		}
		f.Close()
	}
	return listed
}

func isZoneName(rel string) bool {
	if extraNames[rel] {
		return true
	}
	area, rest, ok := strings.Cut(rel, "/")
	if !ok || !canonicalAreas[area] || rest == "" {
		return false
	}
	// Skip stray files such as *.tab or README copies.
	return !strings.Contains(rel, ".")
}

var (
	defaultCatalog *Catalog
	defaultErr     error
	defaultOnce    sync.Once
)

// Default builds the host catalog once per process and returns the shared
// handle on every call.
func Default(opts ...Option) (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Build(opts...)
	})
	return defaultCatalog, defaultErr
}
