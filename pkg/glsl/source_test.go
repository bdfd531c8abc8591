package glsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsComment(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"// line comment", true},
		{"/** doc block", true},
		{"/*- banner", true},
		{"/*= banner", true},
		{" * continuation", true},
		{" */", true},
		{"/* plain block */", false},
		{"  // indented comment", false},
		{"*/", false},
		{"void main( void )", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComment(tt.line))
		})
	}
}

func TestParseInclude(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr error
	}{
		{`#include "shading.h"`, "shading.h", nil},
		{`#include "../common/noise.h" // trailing`, "../common/noise.h", nil},
		{`#include "unterminated.h`, "unterminated.h", nil},
		{`#include <shading.h>`, "", ErrMalformedInclude},
		{`#include ""`, "", ErrMalformedInclude},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseInclude(tt.line)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, `"    gl_FragColor = dst;\n"`, Literal("    gl_FragColor = dst;", false))
	assert.Equal(t, `"\n"`, Literal("", false))
	assert.Equal(t, `"say "hi"\n"`, Literal(`say "hi"`, false))
	assert.Equal(t, `"say \"hi\" \\n\n"`, Literal(`say "hi" \n`, true))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\r\n\r\nb\r\n"))
	assert.Equal(t, []string{""}, splitLines("\n"))
}

func TestKind(t *testing.T) {
	for i, k := range Kinds {
		assert.Equal(t, Kind(i), k)
		got, ok := KindFromExt(k.Ext())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Geometry", Geometry.String())
	assert.Equal(t, ".frag", Fragment.Ext())
	assert.Equal(t, "Kind(7)", Kind(7).String())

	_, ok := KindFromExt(".comp")
	assert.False(t, ok)
}
