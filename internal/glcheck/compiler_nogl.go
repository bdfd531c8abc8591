//go:build !glcheck

package glcheck

func newGLCompiler(Options) (compiler, error) {
	return nil, ErrUnavailable
}
