package compiler

import (
	"regexp"
	"slices"

	"github.com/erraggy/oascompiler/node"
)

// StringForScalarNode returns the text of a string or integer scalar.
// Null yields "" and is accepted; floats, booleans and collections are not.
func StringForScalarNode(n *node.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case node.String:
		return n.Value, true
	case node.Number:
		if n.IsInteger() {
			return n.Value, true
		}
	case node.Null:
		return "", true
	}
	return "", false
}

// StringArrayForSequenceNode collects the string scalars of a sequence.
func StringArrayForSequenceNode(n *node.Node) []string {
	if !n.IsSequence() {
		return nil
	}
	out := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if s, ok := StringForScalarNode(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// SortedKeysForMap returns the keys of a mapping in lexical order.
func SortedKeysForMap(n *node.Node) []string {
	if !n.IsMapping() {
		return nil
	}
	keys := slices.Clone(n.Keys)
	slices.Sort(keys)
	return keys
}

// MissingKeysInMap returns the required keys absent from the mapping.
func MissingKeysInMap(n *node.Node, required ...string) []string {
	var missing []string
	for _, k := range required {
		if !n.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// InvalidKeysInMap returns the keys of a mapping that are neither allowed
// nor matched by one of the patterns.
func InvalidKeysInMap(n *node.Node, allowed []string, patterns []*regexp.Regexp) []string {
	if !n.IsMapping() {
		return nil
	}
	var invalid []string
	for _, k := range n.Keys {
		if slices.Contains(allowed, k) {
			continue
		}
		if slices.ContainsFunc(patterns, func(p *regexp.Regexp) bool { return p.MatchString(k) }) {
			continue
		}
		invalid = append(invalid, k)
	}
	return invalid
}

// PluralProperties returns "property" or "properties" for count.
func PluralProperties(count int) string {
	if count == 1 {
		return "property"
	}
	return "properties"
}

// StringArrayContainsValues reports whether array contains every value.
func StringArrayContainsValues(array []string, values ...string) bool {
	for _, v := range values {
		if !slices.Contains(array, v) {
			return false
		}
	}
	return true
}
