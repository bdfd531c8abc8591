package glsl

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func newResolver(t *testing.T, fsys fs.FS, opts Options) *Resolver {
	t.Helper()
	r, err := NewResolver(fsys, opts)
	require.NoError(t, err)
	return r
}

func TestResolve_PlainFile(t *testing.T) {
	fsys := fstest.MapFS{
		"basic.vert": file("void main( void )\n{\n    gl_Position = ftransform();\n}\n"),
	}
	got, err := newResolver(t, fsys, Options{}).Resolve("basic.vert")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`"void main( void )\n"`,
		`"{\n"`,
		`"    gl_Position = ftransform();\n"`,
		`"}\n"`,
	}, got)
}

func TestResolve_DropsComments(t *testing.T) {
	fsys := fstest.MapFS{
		"shade.frag": file("/*****\n * Copyright\n */\n// note\nvarying float depth;\n/* kept */\n"),
	}
	got, err := newResolver(t, fsys, Options{}).Expand("shade.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{"varying float depth;", "/* kept */"}, got)
}

func TestResolve_TopLevelIncludeContinues(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/main.frag":   file("uniform float a;\n#include \"shading.h\"\nvoid main() {}\n"),
		"dir/shading.h":   file("// header\nvec3 shade();\n"),
		"dir/unused.frag": file("x\n"),
	}
	got, err := newResolver(t, fsys, Options{}).Expand("dir/main.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{"uniform float a;", "vec3 shade();", "void main() {}"}, got)
}

func TestResolve_IndentedTopLevelDirectiveIsText(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": file("  #include \"b.h\"\n"),
	}
	got, err := newResolver(t, fsys, Options{}).Expand("a.vert")
	require.NoError(t, err)
	assert.Equal(t, []string{`  #include "b.h"`}, got)
}

func TestResolve_ShallowNestedIncludeReturnsEarly(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag":        file("first;\n#include \"lib/b.h\"\nlast;\n"),
		"lib/b.h":       file("b1;\n    #include \"c.h\"\nb-dropped;\n"),
		"lib/c.h":       file("c1;\nc2;\n"),
		"lib/ignored.h": file("never\n"),
	}
	got, err := newResolver(t, fsys, Options{Policy: Shallow}).Expand("a.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{"first;", "b1;", "c1;", "c2;", "last;"}, got)
}

func TestResolve_Recursive(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag":  file("first;\n#include \"lib/b.h\"\nlast;\n"),
		"lib/b.h": file("b1;\n    #include \"c.h\"\nb2;\n"),
		"lib/c.h": file("c1;\n#include \"d.h\"\nc2;\n"),
		"lib/d.h": file("d1;\n"),
	}
	got, err := newResolver(t, fsys, Options{Policy: Recursive}).Expand("a.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{"first;", "b1;", "c1;", "d1;", "c2;", "b2;", "last;"}, got)
}

func TestResolve_Cycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag": file("#include \"b.h\"\n"),
		"b.h":    file("#include \"c.h\"\n"),
		"c.h":    file("#include \"b.h\"\n"),
	}
	for _, policy := range []IncludePolicy{Shallow, Recursive} {
		t.Run(policy.String(), func(t *testing.T) {
			_, err := newResolver(t, fsys, Options{Policy: policy}).Expand("a.frag")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncludeCycle), "got %v", err)

			var ierr *IncludeError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, "c.h", ierr.File)
			assert.Equal(t, 1, ierr.Line)
		})
	}
}

func TestResolve_MaxDepth(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag": file("#include \"1.h\"\n"),
		"1.h":    file("#include \"2.h\"\n"),
		"2.h":    file("#include \"3.h\"\n"),
		"3.h":    file("x\n"),
	}
	_, err := newResolver(t, fsys, Options{Policy: Recursive, MaxDepth: 2}).Expand("a.frag")
	assert.True(t, errors.Is(err, ErrIncludeDepth), "got %v", err)

	got, err := newResolver(t, fsys, Options{Policy: Recursive, MaxDepth: 3}).Expand("a.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)
}

func TestResolve_MalformedInclude(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": file("ok;\n#include <missing.h>\n"),
	}
	_, err := newResolver(t, fsys, Options{}).Resolve("a.vert")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInclude))
	assert.Contains(t, err.Error(), "a.vert:2")
}

func TestResolve_MissingFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": file("#include \"gone.h\"\n"),
	}
	r := newResolver(t, fsys, Options{})

	_, err := r.Resolve("nope.vert")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	_, err = r.Resolve("a.vert")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestResolve_CachesReads(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert":   file("#include \"common.h\"\na;\n"),
		"b.vert":   file("#include \"common.h\"\nb;\n"),
		"common.h": file("common;\n"),
	}
	r := newResolver(t, fsys, Options{})
	_, err := r.Resolve("a.vert")
	require.NoError(t, err)

	// Cached content wins over the changed file for the rest of the run.
	fsys["common.h"] = file("changed;\n")
	got, err := r.Expand("b.vert")
	require.NoError(t, err)
	assert.Equal(t, []string{"common;", "b;"}, got)
}

func TestResolve_EscapeQuotes(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag": file("#define NAME \"x\"\n"),
	}
	got, err := newResolver(t, fsys, Options{EscapeQuotes: true}).Resolve("a.frag")
	require.NoError(t, err)
	assert.Equal(t, []string{`"#define NAME \"x\"\n"`}, got)
}

func TestSource(t *testing.T) {
	fsys := fstest.MapFS{
		"a.frag": file("// c\nvoid main() {}"),
		"e.frag": file("// only a comment\n"),
	}
	r := newResolver(t, fsys, Options{})

	src, err := r.Source("a.frag")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", src)

	src, err = r.Source("e.frag")
	require.NoError(t, err)
	assert.Empty(t, src)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Shallow, p)

	p, err = ParsePolicy("Recursive")
	require.NoError(t, err)
	assert.Equal(t, Recursive, p)

	_, err = ParsePolicy("deep")
	assert.Error(t, err)
}
