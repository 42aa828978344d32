package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/erraggy/oascompiler/cmd/oascompile/commands"
	"github.com/stretchr/testify/assert"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Typos within edit distance 2
		{"compil", "compile"},
		{"comple", "compile"},
		{"detec", "detect"},
		{"detcet", "detect"},
		{"compaer", "compare"},
		{"discovry", "discovery"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		// Too far - no suggestion (distance > 2)
		{"xyz", ""},
		{"foobar", ""},
		{"compilation", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestCommand(tt.input))
		})
	}
}

func runCLI(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(args, commands.Streams{In: strings.NewReader(""), Out: &out, Err: &errOut})
	return code, out.String(), errOut.String()
}

func TestRun(t *testing.T) {
	code, _, errOut := runCLI()
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Commands:")

	code, out, _ := runCLI("version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "oascompile v"))

	code, _, errOut = runCLI("compil")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Did you mean 'compile'?")

	code, _, errOut = runCLI("compile")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: compile command requires exactly one")
}
