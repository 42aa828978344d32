package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the schema as indented text for debugging output.
func (s *Schema) String() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	s.describe(&b, "")
	return b.String()
}

// Description returns the type keyword as text: the type name, or the
// comma-separated list of names.
func Description(t TypeValue) string {
	switch t := t.(type) {
	case SingleType:
		return string(t)
	case MultipleTypes:
		return strings.Join(t, ", ")
	}
	return ""
}

func numberText(n Number) string {
	switch v := n.(type) {
	case Integer:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return formatFloat(float64(v))
	}
	return ""
}

func (s *Schema) describe(b *strings.Builder, indent string) {
	next := indent + "  "
	deeper := indent + "    "
	line := func(format string, args ...any) {
		b.WriteString(indent)
		fmt.Fprintf(b, format, args...)
		b.WriteByte('\n')
	}
	named := func(label string, ns NamedSchemas) {
		if ns == nil {
			return
		}
		line("%s:", label)
		for _, n := range ns {
			fmt.Fprintf(b, "%s%s:\n", next, n.Name)
			n.Value.describe(b, deeper)
		}
	}
	list := func(label string, schemas []*Schema) {
		if schemas == nil {
			return
		}
		line("%s:", label)
		for _, sub := range schemas {
			sub.describe(b, next)
			line("-")
		}
	}

	if s.Schema != "" {
		line("$schema: %s", s.Schema)
	}
	if s.ID != "" {
		line("id: %s", s.ID)
	}
	if s.MultipleOf != nil {
		line("multipleOf: %s", numberText(s.MultipleOf))
	}
	if s.Maximum != nil {
		line("maximum: %s", numberText(s.Maximum))
	}
	if s.ExclusiveMaximum != nil {
		line("exclusiveMaximum: %t", *s.ExclusiveMaximum)
	}
	if s.Minimum != nil {
		line("minimum: %s", numberText(s.Minimum))
	}
	if s.ExclusiveMinimum != nil {
		line("exclusiveMinimum: %t", *s.ExclusiveMinimum)
	}
	if s.MaxLength != nil {
		line("maxLength: %d", *s.MaxLength)
	}
	if s.MinLength != nil {
		line("minLength: %d", *s.MinLength)
	}
	if s.Pattern != "" {
		line("pattern: %s", s.Pattern)
	}
	switch v := s.AdditionalItems.(type) {
	case Boolean:
		line("additionalItems: %t", bool(v))
	case *Schema:
		line("additionalItems:")
		v.describe(b, next)
	}
	switch v := s.Items.(type) {
	case *Schema:
		line("items:")
		v.describe(b, deeper)
	case SchemaList:
		line("items:")
		for i, sub := range v {
			fmt.Fprintf(b, "%s%d:\n", next, i)
			sub.describe(b, deeper)
		}
	}
	if s.MaxItems != nil {
		line("maxItems: %d", *s.MaxItems)
	}
	if s.MinItems != nil {
		line("minItems: %d", *s.MinItems)
	}
	if s.UniqueItems != nil {
		line("uniqueItems: %t", *s.UniqueItems)
	}
	if s.MaxProperties != nil {
		line("maxProperties: %d", *s.MaxProperties)
	}
	if s.MinProperties != nil {
		line("minProperties: %d", *s.MinProperties)
	}
	if s.Required != nil {
		line("required: %q", s.Required)
	}
	switch v := s.AdditionalProperties.(type) {
	case Boolean:
		line("additionalProperties: %t", bool(v))
	case *Schema:
		line("additionalProperties:")
		v.describe(b, next)
	}
	named("properties", s.Properties)
	named("patternProperties", s.PatternProperties)
	if s.Dependencies != nil {
		line("dependencies:")
		for _, dep := range s.Dependencies {
			fmt.Fprintf(b, "%s%s:\n", next, dep.Name)
			switch v := dep.Value.(type) {
			case *Schema:
				v.describe(b, deeper)
			case StringArray:
				for _, name := range v {
					fmt.Fprintf(b, "%s%s\n", deeper, name)
				}
			}
		}
	}
	if s.Enum != nil {
		line("enumeration:")
		for _, v := range s.Enum {
			fmt.Fprintf(b, "%s%s\n", next, strings.TrimSpace(v.YAML))
		}
	}
	if s.Type != nil {
		line("type: %s", Description(s.Type))
	}
	list("allOf", s.AllOf)
	list("anyOf", s.AnyOf)
	list("oneOf", s.OneOf)
	if s.Not != nil {
		line("not:")
		s.Not.describe(b, next)
	}
	named("definitions", s.Definitions)
	if s.Title != "" {
		line("title: %s", s.Title)
	}
	if s.Description != "" {
		line("description: %s", s.Description)
	}
	if s.Default != nil {
		line("default:")
		fmt.Fprintf(b, "%s  %s\n", indent, strings.TrimSpace(s.Default.YAML))
	}
	if s.Format != "" {
		line("format: %s", s.Format)
	}
	if s.Ref != "" {
		line("$ref: %s", s.Ref)
	}
}
