package patterns

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
)

// Catalog sources.
const (
	SourceFilesystem = "filesystem"
	SourceFallback   = "fallback"
	SourceNone       = "none"
)

// Catalog is one resolution of the available pattern names.
type Catalog struct {
	// Names holds the sorted pattern names.
	Names []string
	// Source records which source produced the entries.
	Source string
}

// Fallback invokes the external program's own listing mode.
type Fallback func(ctx context.Context) ([]string, error)

// Resolver produces the list of available patterns, preferring a direct
// filesystem read with the external CLI as a safety net for
// installations whose directory layout differs.
type Resolver struct {
	// Dirs are candidate pattern directories, probed in order.
	Dirs []string
	// Fallback lists patterns through the external CLI.
	Fallback Fallback
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// List resolves the catalog fresh for this call and filters it by the
// optional search term, case-insensitively. Source failures are
// recovered internally; the worst result is an empty catalog, never an
// error. Entries from the two sources are never mixed.
func (r *Resolver) List(ctx context.Context, search string) Catalog {
	names, source := r.fromFilesystem()

	if len(names) == 0 && r.Fallback != nil {
		fallback, err := r.Fallback(ctx)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("pattern listing fallback failed", "error", err)
			}
		} else if len(fallback) > 0 {
			names = fallback
			source = SourceFallback
		}
	}

	sort.Strings(names)

	if term := strings.TrimSpace(search); term != "" {
		lower := strings.ToLower(term)
		filtered := names[:0]
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), lower) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	if len(names) == 0 && source == "" {
		source = SourceNone
	}
	return Catalog{Names: names, Source: source}
}

// Details returns the system prompt of the named pattern from the first
// candidate directory that holds it.
func (r *Resolver) Details(name string) (string, error) {
	if strings.Contains(name, "..") || strings.ContainsRune(name, os.PathSeparator) {
		return "", protocol.Validationf("pattern_name contains invalid characters")
	}
	for _, dir := range r.Dirs {
		data, err := os.ReadFile(filepath.Join(dir, name, "system.md"))
		if err != nil {
			continue
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", protocol.Validationf("pattern '%s' not found", name)
}

// fromFilesystem probes every candidate directory in order and lists
// the first one that yields entries. A missing or unreadable directory
// is treated the same as an empty one.
func (r *Resolver) fromFilesystem() ([]string, string) {
	for _, dir := range r.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			fsErr := protocol.Filesystemf("read patterns directory %s: %v", dir, err)
			if r.Logger != nil {
				r.Logger.Debug("patterns directory probe failed", "dir", dir, "error", fsErr)
			}
			continue
		}
		var names []string
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			names = append(names, entry.Name())
		}
		if len(names) > 0 {
			return names, SourceFilesystem
		}
	}
	return nil, ""
}
