package glsl

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned while reading shader sources.
var (
	ErrMalformedInclude = errors.New("malformed #include: no quoted file name")
	ErrIncludeCycle     = errors.New("#include cycle")
	ErrIncludeDepth     = errors.New("#include nesting too deep")
)

const includeDirective = "#include"

// commentPrefixes are the line starts treated as comments. This is a prefix
// match, not a comment parser: block comments in any other shape pass through.
var commentPrefixes = []string{"//", "/**", "/*-", "/*=", " *", " */"}

// IsComment reports whether the line is dropped from the emitted source.
func IsComment(line string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// ParseInclude extracts the file name of an #include line. The name is the text
// after the first double quote, up to the next one or the end of the line.
func ParseInclude(line string) (string, error) {
	i := strings.IndexByte(line, '"')
	if i < 0 {
		return "", ErrMalformedInclude
	}
	name := line[i+1:]
	if j := strings.IndexByte(name, '"'); j >= 0 {
		name = name[:j]
	}
	if name == "" {
		return "", ErrMalformedInclude
	}
	return name, nil
}

// IncludeError locates a failing #include directive.
type IncludeError struct {
	File string
	Line int
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// Literal formats a source line as the body of a C++ string literal,
// quoted and terminated by an escaped newline.
func Literal(line string, escape bool) string {
	if escape {
		line = strings.ReplaceAll(line, `\`, `\\`)
		line = strings.ReplaceAll(line, `"`, `\"`)
	}
	return `"` + line + `\n"`
}

// splitLines splits file content into lines without their terminators.
// A final line without a newline still counts; an empty file has no lines.
func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	lines := strings.SplitAfter(data, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		ln = strings.TrimSuffix(ln, "\n")
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
