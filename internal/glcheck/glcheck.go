// Package glcheck compiles expanded shader sources against a real OpenGL
// driver. The driver-backed compiler is only built with the glcheck build tag,
// since it needs cgo, SDL2 and a display.
package glcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/shadergen/pkg/glsl"
)

// ErrUnavailable is returned when the binary was built without the glcheck tag.
var ErrUnavailable = errors.New("GL shader check not available: rebuild with -tags glcheck")

// Options select the GL context the shaders are compiled in.
type Options struct {
	Major   int
	Minor   int
	Profile string // core or compatibility
}

// Shader is one expanded shader source.
type Shader struct {
	Name   string
	Kind   glsl.Kind
	Source string
}

// CompileError carries the driver's info log for a shader that did not compile.
type CompileError struct {
	Shader Shader
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader %s: %s", strings.ToLower(e.Shader.Kind.String()), e.Shader.Name, e.Log)
}

// compiler compiles a single shader stage. Implementations own a GL context
// bound to the calling OS thread.
type compiler interface {
	compile(k glsl.Kind, src string) (infoLog string, ok bool)
	close()
}

// openCompiler is replaced in tests.
var openCompiler = newGLCompiler

// Result is the outcome of a check run.
type Result struct {
	Compiled int
	Skipped  int
	Failures []*CompileError
}

// Run compiles every shader and collects the ones that fail. Shaders with an
// empty effective source are skipped. The returned error is only set when no
// GL context could be created.
func Run(opts Options, shaders []Shader) (*Result, error) {
	c, err := openCompiler(opts)
	if err != nil {
		return nil, err
	}
	defer c.close()

	res := &Result{}
	for _, s := range shaders {
		if strings.TrimSpace(s.Source) == "" {
			res.Skipped++
			continue
		}
		infoLog, ok := c.compile(s.Kind, s.Source)
		if !ok {
			res.Failures = append(res.Failures, &CompileError{Shader: s, Log: infoLog})
			continue
		}
		res.Compiled++
	}
	return res, nil
}
