// Package glsl reads GLSL shader sources the way the generated C++ headers
// expect them: comment lines dropped, #include directives spliced in place.
package glsl

import "fmt"

// Kind is the pipeline stage a shader file belongs to.
type Kind int

const (
	Vertex Kind = iota
	Geometry
	Fragment

	// NumKinds is the number of shader kinds.
	NumKinds = 3
)

// Kinds lists every kind in output order.
var Kinds = [NumKinds]Kind{Vertex, Geometry, Fragment}

var kindNames = [NumKinds]string{"Vertex", "Geometry", "Fragment"}

var kindExts = [NumKinds]string{".vert", ".geom", ".frag"}

// String returns the kind name as used for the C++ namespace.
func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Ext returns the file extension of the kind, including the leading dot.
func (k Kind) Ext() string {
	if k < 0 || int(k) >= NumKinds {
		return ""
	}
	return kindExts[k]
}

// KindFromExt maps a file extension (".frag") to its kind.
func KindFromExt(ext string) (Kind, bool) {
	for i, e := range kindExts {
		if e == ext {
			return Kind(i), true
		}
	}
	return 0, false
}
