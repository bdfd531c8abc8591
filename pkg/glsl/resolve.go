package glsl

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// IncludePolicy selects how nested #include directives are expanded.
type IncludePolicy int

const (
	// Shallow expands directives that start a line of the top-level file.
	// Inside an included file any line containing #include is followed and the
	// rest of that included file is dropped. Existing headers depend on this.
	Shallow IncludePolicy = iota
	// Recursive treats every file like the top-level one: directives must start
	// the line and processing continues after each splice.
	Recursive
)

func (p IncludePolicy) String() string {
	switch p {
	case Shallow:
		return "shallow"
	case Recursive:
		return "recursive"
	default:
		return fmt.Sprintf("IncludePolicy(%d)", int(p))
	}
}

// ParsePolicy parses "shallow" or "recursive".
func ParsePolicy(s string) (IncludePolicy, error) {
	switch strings.ToLower(s) {
	case "", "shallow":
		return Shallow, nil
	case "recursive":
		return Recursive, nil
	}
	return 0, fmt.Errorf("unknown include policy %q", s)
}

// Options configure a Resolver.
type Options struct {
	Policy IncludePolicy
	// MaxDepth bounds include nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// EscapeQuotes escapes backslashes and double quotes in emitted literals.
	EscapeQuotes bool
	// CacheSize is the number of files kept in memory; 0 means DefaultCacheSize.
	CacheSize int
}

const (
	DefaultMaxDepth  = 16
	DefaultCacheSize = 128
)

// Resolver expands shader files read from a file system.
// It caches file contents, so use a fresh Resolver per generation run.
type Resolver struct {
	fsys  fs.FS
	opts  Options
	cache *lru.Cache[string, []string]
}

// NewResolver returns a Resolver reading from fsys.
func NewResolver(fsys fs.FS, opts Options) (*Resolver, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{fsys: fsys, opts: opts, cache: cache}, nil
}

// Resolve returns the string-literal lines for the file at name.
func (r *Resolver) Resolve(name string) ([]string, error) {
	lines, err := r.Expand(name)
	if err != nil {
		return nil, err
	}
	for i, ln := range lines {
		lines[i] = Literal(ln, r.opts.EscapeQuotes)
	}
	return lines, nil
}

// Expand returns the effective source lines of the file at name, without
// literal quoting.
func (r *Resolver) Expand(name string) ([]string, error) {
	var out []string
	if err := r.expand(path.Clean(name), nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Source returns the effective source text, one newline per line.
func (r *Resolver) Source(name string) (string, error) {
	lines, err := r.Expand(name)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func (r *Resolver) expand(name string, chain []string, nested bool, out *[]string) error {
	lines, err := r.readLines(name)
	if err != nil {
		return err
	}
	chain = append(chain, name)
	dir := path.Dir(name)

	for i, ln := range lines {
		if IsComment(ln) {
			continue
		}
		if !r.isDirective(ln, nested) {
			*out = append(*out, ln)
			continue
		}

		target, err := ParseInclude(ln)
		if err != nil {
			return &IncludeError{File: name, Line: i + 1, Err: err}
		}
		target = path.Join(dir, target)
		if slices.Contains(chain, target) {
			return &IncludeError{File: name, Line: i + 1, Err: fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(chain, target), " -> "))}
		}
		if len(chain) > r.opts.MaxDepth {
			return &IncludeError{File: name, Line: i + 1, Err: fmt.Errorf("%w: limit %d", ErrIncludeDepth, r.opts.MaxDepth)}
		}

		if err := r.expand(target, chain, true, out); err != nil {
			return err
		}
		if nested && r.opts.Policy == Shallow {
			return nil
		}
	}
	return nil
}

func (r *Resolver) isDirective(line string, nested bool) bool {
	if r.opts.Policy == Shallow {
		if nested {
			return strings.Contains(line, includeDirective)
		}
		return strings.HasPrefix(line, includeDirective)
	}
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), includeDirective)
}

func (r *Resolver) readLines(name string) ([]string, error) {
	if lines, ok := r.cache.Get(name); ok {
		return lines, nil
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading shader source: %w", err)
	}
	lines := splitLines(string(data))
	r.cache.Add(name, lines)
	return lines, nil
}
