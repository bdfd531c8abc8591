// Package manifest reads the list of shader directories to generate headers for.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// DefaultName is the manifest file name under the source root.
const DefaultName = "KVS_SHADER_DIR_LIST"

var (
	ErrNoManifest = errors.New("shader manifest not found")
	ErrInvalidDir = errors.New("invalid shader directory")
)

// Manifest is the ordered list of shader directories, relative to the source root.
// Order is preserved and duplicates are kept.
type Manifest struct {
	Dirs []string
}

// Parse reads one directory per line. Blank lines are skipped.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		dir := path.Clean(strings.TrimSuffix(line, "/"))
		if !fs.ValidPath(dir) || dir == "." {
			return nil, fmt.Errorf("line %d: %w: %q", n, ErrInvalidDir, line)
		}
		m.Dirs = append(m.Dirs, dir)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

// Load reads and parses the manifest file name from fsys.
func Load(fsys fs.FS, name string) (*Manifest, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, name)
		}
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// Base returns the last element of a manifest directory. It names the
// generated namespace and include guard.
func Base(dir string) string {
	return path.Base(dir)
}
