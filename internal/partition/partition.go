package partition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/guttosm/tickpulse/internal/logger"
)

const (
	// DefaultPrefix is the hive-style directory prefix of the symbol partitioning.
	DefaultPrefix = "sym_root="
	// DataFileExt is the extension of partition data files.
	DataFileExt = ".parquet"
)

// ErrNoDataFile is returned when a partition directory holds no data file.
var ErrNoDataFile = errors.New("partition has no data file")

// ErrNoBaseName is returned by MappingPath for a root it cannot name a
// mapping document after, such as "/".
var ErrNoBaseName = errors.New("partition root has no base name")

// Mapping maps a partition name (the instrument root symbol) to the data file
// of that partition.
type Mapping map[string]string

// Names returns the partition names in ascending order.
func (m Mapping) Names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Traverse scans root for directories named prefix+name and maps every name to
// the first (lexically) data file inside that directory. Entries not carrying
// the prefix are ignored.
//
// A directory with several data files is accepted: the first one wins and the
// rest are reported with a warning.
func Traverse(root, prefix string) (Mapping, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read partition root: %w", err)
	}

	out := make(Mapping)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		file, err := firstDataFile(dir)
		if err != nil {
			return nil, err
		}
		out[strings.TrimPrefix(e.Name(), prefix)] = file
	}
	return out, nil
}

func firstDataFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read partition %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), DataFileExt) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoDataFile, dir)
	}
	if len(files) > 1 {
		logger.L().Warn().Str("dir", dir).Int("files", len(files)).Str("picked", files[0]).Msg("multiple data files in partition")
	}
	return filepath.Join(dir, files[0]), nil
}

// MappingPath returns where the mapping document for root is stored: root
// with its last extension replaced by ".json". Relative roots without a name
// ("." or "..") are resolved against the working directory first; a
// filesystem root has no name to derive from and yields ErrNoBaseName.
//
//	data/trades.parquet → data/trades.json
//	data/trades         → data/trades.json
//	.                   → <parent of cwd>/<cwd name>.json
func MappingPath(root string) (string, error) {
	clean := filepath.Clean(root)
	if base := filepath.Base(clean); base == "." || base == ".." {
		abs, err := filepath.Abs(clean)
		if err != nil {
			return "", fmt.Errorf("resolve partition root %q: %w", root, err)
		}
		clean = abs
	}

	base := filepath.Base(clean)
	if base == string(filepath.Separator) || base == "." || base == ".." {
		return "", fmt.Errorf("%w: %q", ErrNoBaseName, root)
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = base
	}
	return filepath.Join(filepath.Dir(clean), name+".json"), nil
}

// WriteMapping serializes m as JSON to path.
func WriteMapping(path string, m Mapping) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	return nil
}

// ReadMapping loads a mapping written by WriteMapping.
func ReadMapping(path string) (Mapping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	var m Mapping
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	return m, nil
}
