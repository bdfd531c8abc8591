//go:build glcheck

package glcheck

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/shadergen/pkg/glsl"
)

// glCompiler owns a hidden SDL2 window and its GL context.
type glCompiler struct {
	window    *sdl.Window
	glContext sdl.GLContext
}

func newGLCompiler(opts Options) (compiler, error) {
	// GL calls must stay on the thread that owns the context.
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	profile := int(sdl.GL_CONTEXT_PROFILE_COMPATIBILITY)
	if opts.Profile == "core" {
		profile = int(sdl.GL_CONTEXT_PROFILE_CORE)
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, opts.Major)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, opts.Minor)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, profile)

	window, err := sdl.CreateWindow(
		"shadergen",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		1, 1,
		uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN),
	)
	if err != nil {
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	glContext, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed for GL %d.%d %s: %w", opts.Major, opts.Minor, opts.Profile, err)
	}

	c := &glCompiler{window: window, glContext: glContext}
	if err := gl.Init(); err != nil {
		c.close()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}
	return c, nil
}

func (c *glCompiler) compile(k glsl.Kind, src string) (string, bool) {
	shader := gl.CreateShader(shaderType(k))
	defer gl.DeleteShader(shader)

	csource, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return "", true
	}

	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	log := make([]byte, logLen+1)
	gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00\n"), false
}

func (c *glCompiler) close() {
	sdl.GLDeleteContext(c.glContext)
	c.window.Destroy()
	sdl.Quit()
	runtime.UnlockOSThread()
}

func shaderType(k glsl.Kind) uint32 {
	switch k {
	case glsl.Geometry:
		return gl.GEOMETRY_SHADER
	case glsl.Fragment:
		return gl.FRAGMENT_SHADER
	default:
		return gl.VERTEX_SHADER
	}
}
