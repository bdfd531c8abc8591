// Package generator turns the shader directories listed in a manifest into
// generated C++ headers.
package generator

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/shadergen/internal/manifest"
	"github.com/Faultbox/shadergen/pkg/cpphdr"
	"github.com/Faultbox/shadergen/pkg/glsl"
)

// DefaultOutputName is the header written into every shader directory.
const DefaultOutputName = "Shader.h"

// Options configure a Generator.
type Options struct {
	// Root is the source root; the manifest and every shader directory are
	// relative to it.
	Root       string
	Manifest   string
	OutputName string
	Template   cpphdr.Template
	Include    glsl.Options
	// DryRun renders headers without writing them.
	DryRun bool
}

// Generator writes one header per manifest directory.
type Generator struct {
	opts Options
	fsys fs.FS
	log  *zap.Logger
}

// DirResult describes one generated header.
type DirResult struct {
	Dir    string
	Output string
	Counts [glsl.NumKinds]int
	Bytes  int64
}

// Result summarizes a run.
type Result struct {
	Dirs   []DirResult
	DryRun bool
}

// Shaders returns the number of shader constants emitted.
func (r *Result) Shaders() int {
	n := 0
	for _, d := range r.Dirs {
		for _, c := range d.Counts {
			n += c
		}
	}
	return n
}

// New returns a Generator for opts. A nil logger discards log output.
func New(opts Options, log *zap.Logger) *Generator {
	if opts.Manifest == "" {
		opts.Manifest = manifest.DefaultName
	}
	if opts.OutputName == "" {
		opts.OutputName = DefaultOutputName
	}
	if opts.Template.StringType == "" {
		opts.Template = cpphdr.DefaultTemplate()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		opts: opts,
		fsys: os.DirFS(opts.Root),
		log:  log,
	}
}

// Options returns the effective options.
func (g *Generator) Options() Options { return g.opts }

// Run generates a header for every manifest directory, in manifest order.
// The first error aborts the run; headers already written are kept.
func (g *Generator) Run() (*Result, error) {
	m, err := manifest.Load(g.fsys, g.opts.Manifest)
	if err != nil {
		return nil, err
	}
	res := &Result{DryRun: g.opts.DryRun}
	if len(m.Dirs) == 0 {
		g.log.Info("manifest lists no shader directories", zap.String("manifest", g.opts.Manifest))
		return res, nil
	}

	r, err := glsl.NewResolver(g.fsys, g.opts.Include)
	if err != nil {
		return nil, err
	}
	for _, dir := range m.Dirs {
		dr, err := g.generate(r, dir)
		if err != nil {
			return res, fmt.Errorf("%s: %w", dir, err)
		}
		res.Dirs = append(res.Dirs, dr)
	}
	return res, nil
}

// Render returns the header for a single shader directory without writing it.
func (g *Generator) Render(dir string) ([]byte, error) {
	r, err := glsl.NewResolver(g.fsys, g.opts.Include)
	if err != nil {
		return nil, err
	}
	h, _, err := g.header(r, dir)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := g.opts.Template.Write(&buf, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutputPath returns the OS path of the header generated for dir.
func (g *Generator) OutputPath(dir string) string {
	return filepath.Join(g.opts.Root, filepath.FromSlash(dir), g.opts.OutputName)
}

func (g *Generator) generate(r *glsl.Resolver, dir string) (DirResult, error) {
	dr := DirResult{Dir: dir, Output: g.OutputPath(dir)}

	// Everything is resolved before the output file is touched, so a bad
	// shader never leaves a truncated header behind.
	h, counts, err := g.header(r, dir)
	if err != nil {
		return dr, err
	}
	dr.Counts = counts

	if g.opts.DryRun {
		cw := &countWriter{w: io.Discard}
		err = g.opts.Template.Write(cw, h)
		dr.Bytes = cw.n
	} else {
		dr.Bytes, err = g.writeHeader(dr.Output, h)
	}
	if err != nil {
		return dr, err
	}

	g.log.Info("generated shader header",
		zap.String("dir", dir),
		zap.String("output", dr.Output),
		zap.Int("vertex", counts[glsl.Vertex]),
		zap.Int("geometry", counts[glsl.Geometry]),
		zap.Int("fragment", counts[glsl.Fragment]),
		zap.Bool("dry_run", g.opts.DryRun),
	)
	return dr, nil
}

func (g *Generator) header(r *glsl.Resolver, dir string) (*cpphdr.Header, [glsl.NumKinds]int, error) {
	var counts [glsl.NumKinds]int
	h := &cpphdr.Header{Dir: manifest.Base(dir)}

	for _, k := range glsl.Kinds {
		files, err := FindShaders(g.fsys, dir, k)
		if err != nil {
			return nil, counts, err
		}
		seen := make(map[string]string, len(files))
		for _, f := range files {
			name := SymbolName(f)
			if !cpphdr.IsIdentifier(name) {
				g.log.Warn("shader name is not a valid C++ identifier", zap.String("file", f), zap.String("name", name))
			}
			if prev, ok := seen[name]; ok {
				g.log.Warn("duplicate shader name", zap.String("name", name), zap.String("file", f), zap.String("previous", prev))
			}
			seen[name] = f

			lines, err := r.Resolve(f)
			if err != nil {
				return nil, counts, err
			}
			g.log.Debug("resolved shader", zap.String("file", f), zap.Stringer("kind", k), zap.Int("lines", len(lines)))
			h.Add(k, cpphdr.Constant{Name: name, Lines: lines})
			counts[k]++
		}
	}
	return h, counts, nil
}

// writeHeader creates or truncates name and writes h into it.
func (g *Generator) writeHeader(name string, h *cpphdr.Header) (n int64, err error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	cw := &countWriter{w: f}
	err = g.opts.Template.Write(cw, h)
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
