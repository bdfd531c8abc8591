// Package cpphdr writes generated C++ headers that embed shader sources as
// string constants inside nested namespaces.
package cpphdr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/shadergen/pkg/glsl"
)

// DefaultBanner is the comment written at the top of every header. The text
// matches headers already checked in next to the shaders.
var DefaultBanner = []string{
	"/* DONT'T EDIT THIS FILE.",
	` * THIS IS GENERATED BY "Configure/configure_shader.py".`,
	" */",
}

// DefaultNamespaces are the outer namespaces wrapping every shader directory.
var DefaultNamespaces = []string{"kvs", "glew", "glsl"}

// Constant is one shader embedded as a string constant.
type Constant struct {
	Name string
	// Lines are complete string literals, see glsl.Literal.
	Lines []string
}

// Header is the content of one generated file.
type Header struct {
	// Dir is the shader directory base name. It names the innermost
	// namespace and the include guard.
	Dir    string
	Groups [glsl.NumKinds][]Constant
}

// Add appends a constant to the group of kind k.
func (h *Header) Add(k glsl.Kind, c Constant) {
	h.Groups[k] = append(h.Groups[k], c)
}

// Template holds the fixed parts of the output format.
type Template struct {
	Banner     []string
	Namespaces []string
	StringType string
	Indent     string
}

// DefaultTemplate returns the template producing the stock headers.
func DefaultTemplate() Template {
	return Template{
		Banner:     DefaultBanner,
		Namespaces: DefaultNamespaces,
		StringType: "std::string",
		Indent:     "    ",
	}
}

// Guard returns the include guard token for a shader directory.
func (t Template) Guard(dir string) string {
	var b strings.Builder
	for _, ns := range t.Namespaces {
		b.WriteString(strings.ToUpper(ns))
		b.WriteString("__")
	}
	b.WriteString(dir)
	b.WriteString("_H_INCLUDE")
	return b.String()
}

// Write emits h to w.
func (t Template) Write(w io.Writer, h *Header) error {
	ew := &errWriter{w: bufio.NewWriter(w)}
	guard := t.Guard(h.Dir)

	for _, ln := range t.Banner {
		ew.println(ln)
	}
	ew.println("#ifndef " + guard)
	ew.println("#define " + guard)
	ew.println("")
	ew.println("#include <string>")
	ew.println("")

	if len(t.Namespaces) > 0 {
		open := make([]string, len(t.Namespaces))
		for i, ns := range t.Namespaces {
			open[i] = "namespace " + ns + " {"
		}
		ew.println(strings.Join(open, " "))
		ew.println("")
	}

	ew.println("namespace " + h.Dir)
	ew.println("{")
	ew.println("")

	for _, k := range glsl.Kinds {
		ew.println("namespace " + k.String())
		ew.println("{")
		ew.println("")
		for _, c := range h.Groups[k] {
			t.writeConstant(ew, c)
		}
		ew.println("} // end of namespace " + k.String())
		if k != glsl.Fragment {
			ew.println("")
		}
	}

	ew.println("")
	ew.println("} // end of namespace " + h.Dir)
	ew.println("")

	if len(t.Namespaces) > 0 {
		ew.println(strings.TrimSpace(strings.Repeat("} ", len(t.Namespaces))) +
			" // end of namespace " + strings.Join(t.Namespaces, ", "))
		ew.println("")
	}
	ew.println("#endif // " + guard)

	return ew.flush()
}

func (t Template) writeConstant(ew *errWriter, c Constant) {
	ew.println(fmt.Sprintf("const %s %s =", t.StringType, c.Name))
	for _, ln := range c.Lines {
		ew.println(t.Indent + ln)
	}
	ew.println(";")
	ew.println("")
}

// IsIdentifier reports whether s is usable as a C++ identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// errWriter keeps the first write error and drops everything after it.
type errWriter struct {
	w   *bufio.Writer
	err error
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	if _, ew.err = ew.w.WriteString(s); ew.err != nil {
		return
	}
	ew.err = ew.w.WriteByte('\n')
}

func (ew *errWriter) flush() error {
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}
