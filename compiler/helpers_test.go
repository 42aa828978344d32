package compiler

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidKeysInMap(t *testing.T) {
	n := mustParse(t, "valid: 1\nx-ext: 2\ninvalid: 3")
	pattern := regexp.MustCompile(`^x-`)
	assert.Equal(t, []string{"invalid"}, InvalidKeysInMap(n, []string{"valid"}, []*regexp.Regexp{pattern}))
}

func TestStringForScalarNode(t *testing.T) {
	n := mustParse(t, "s: x\ni: 3\nf: 1.5\nb: true\nn: ~\nm: {}")
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"s", "x", true},
		{"i", "3", true},
		{"f", "", false},
		{"b", "", false},
		{"n", "", true},
		{"m", "", false},
	}
	for _, tt := range tests {
		got, ok := StringForScalarNode(n.Lookup(tt.key))
		assert.Equal(t, tt.want, got, tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
	}
}
