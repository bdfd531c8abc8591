package manifest

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in := "Renderer/RayCastingRenderer\r\n\nRenderer/PointRenderer/\nRenderer/RayCastingRenderer\n"
	m, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Renderer/RayCastingRenderer",
		"Renderer/PointRenderer",
		"Renderer/RayCastingRenderer",
	}, m.Dirs)
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Dirs)
}

func TestParse_InvalidDir(t *testing.T) {
	for _, in := range []string{"../outside", "/abs/path", "."} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in + "\n"))
			assert.True(t, errors.Is(err, ErrInvalidDir), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		DefaultName: &fstest.MapFile{Data: []byte("A\nB/C\n")},
	}
	m, err := Load(fsys, DefaultName)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B/C"}, m.Dirs)

	_, err = Load(fsys, "MISSING")
	assert.True(t, errors.Is(err, ErrNoManifest), "got %v", err)
}

func TestBase(t *testing.T) {
	assert.Equal(t, "RayCastingRenderer", Base("Renderer/RayCastingRenderer"))
	assert.Equal(t, "Top", Base("Top"))
}
