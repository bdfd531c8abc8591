package generator

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Faultbox/shadergen/internal/manifest"
	"github.com/Faultbox/shadergen/pkg/glsl"
)

// FindShaders returns the files of kind k anywhere under dir, sorted.
// Returned paths include dir.
func FindShaders(fsys fs.FS, dir string, k glsl.Kind) ([]string, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("shader directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("shader directory: %s is not a directory", dir)
	}

	// Globbing inside a sub-FS keeps metacharacters in dir from being
	// interpreted as a pattern.
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(sub, "**/*"+k.Ext(),
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("finding %s shaders in %s: %w", strings.ToLower(k.String()), dir, err)
	}
	for i, m := range matches {
		matches[i] = path.Join(dir, m)
	}
	sort.Strings(matches)
	return matches, nil
}

// SymbolName is the constant name for a shader file: its base name without
// the extension.
func SymbolName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Listing is the set of shader files found for one manifest directory.
type Listing struct {
	Dir   string
	Files [glsl.NumKinds][]string
}

// List enumerates shader files for every manifest directory without
// generating anything.
func (g *Generator) List() ([]Listing, error) {
	m, err := manifest.Load(g.fsys, g.opts.Manifest)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(m.Dirs))
	for _, dir := range m.Dirs {
		l := Listing{Dir: dir}
		for _, k := range glsl.Kinds {
			if l.Files[k], err = FindShaders(g.fsys, dir, k); err != nil {
				return nil, fmt.Errorf("%s: %w", dir, err)
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// Shader is the effective source of one shader file.
type Shader struct {
	Dir    string
	File   string
	Kind   glsl.Kind
	Source string
}

// Collect expands every shader of every manifest directory.
func (g *Generator) Collect() ([]Shader, error) {
	listings, err := g.List()
	if err != nil {
		return nil, err
	}
	r, err := glsl.NewResolver(g.fsys, g.opts.Include)
	if err != nil {
		return nil, err
	}
	var out []Shader
	for _, l := range listings {
		for _, k := range glsl.Kinds {
			for _, f := range l.Files[k] {
				src, err := r.Source(f)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", l.Dir, err)
				}
				out = append(out, Shader{Dir: l.Dir, File: f, Kind: k, Source: src})
			}
		}
	}
	return out, nil
}
