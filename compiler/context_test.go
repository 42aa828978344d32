package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/erraggy/oascompiler/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextPathAndReport(t *testing.T) {
	ctx := NewContext()
	ctx.Push("paths")
	ctx.Push("/pets")
	ctx.Push("parameters")
	ctx.PushIndex(1)
	ctx.Report("first")
	ctx.Pop()
	ctx.Pop()
	ctx.Reportf("second %d", 2)
	ctx.Pop()
	ctx.Pop()

	assert.Equal(t, 0, ctx.Depth())
	diags := ctx.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "$.paths./pets.parameters[1]", diags[0].PathString())
	assert.Equal(t, "first", diags[0].Message)
	assert.Equal(t, "$.paths./pets", diags[1].PathString())
	assert.Equal(t, "second 2", diags[1].Message)
}

func TestContextReportAtUsesNodePosition(t *testing.T) {
	root, err := node.Parse([]byte("info:\n  title: 3.5\n"))
	require.NoError(t, err)

	ctx := NewContext()
	ctx.Push("info")
	ctx.ReportAt(root.Lookup("info").Lookup("title"), "bad")
	ctx.Pop()

	d := ctx.Diagnostics()[0]
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 10, d.Column)
	assert.Equal(t, "[2,10] $.info bad", d.String())
}

func TestContextErr(t *testing.T) {
	ctx := NewContext()
	assert.NoError(t, ctx.Err())

	ctx.Report("has invalid property: foo")
	err := ctx.Err()
	require.Error(t, err)

	var group *ErrorGroup
	require.True(t, errors.As(err, &group))
	assert.Len(t, group.Diagnostics, 1)
	assert.Equal(t, "$ has invalid property: foo", err.Error())
}

func TestContextDiagnosticsIsACopy(t *testing.T) {
	ctx := NewContext()
	ctx.Report("one")
	diags := ctx.Diagnostics()
	diags[0].Message = "changed"
	assert.Equal(t, "one", ctx.Diagnostics()[0].Message)
}

func TestContextCheckDepth(t *testing.T) {
	ctx := NewContext(WithMaxDepth(2))
	assert.True(t, ctx.CheckDepth(nil))
	ctx.Push("a")
	ctx.Push("b")
	assert.False(t, ctx.CheckDepth(nil))
	require.Len(t, ctx.Diagnostics(), 1)
	assert.Contains(t, ctx.Diagnostics()[0].Message, "maximum nesting depth of 2")
}

type mapRefReader map[string]string

func (m mapRefReader) ReadRef(_ context.Context, base, ref string) (*node.Node, string, error) {
	src, ok := m[ref]
	if !ok {
		return nil, "", errors.New("could not resolve " + ref)
	}
	n, err := node.Parse([]byte(src))
	return n, ref, err
}

func TestContextInlineRef(t *testing.T) {
	refs := mapRefReader{"other.yaml": "type: string"}

	t.Run("disabled by default", func(t *testing.T) {
		ctx := NewContext()
		_, _, ok := ctx.InlineRef(nil, "other.yaml")
		assert.False(t, ok)
		assert.Empty(t, ctx.Diagnostics())
	})

	t.Run("local refs are never inlined", func(t *testing.T) {
		ctx := NewContext(WithRefReader(refs, "api.yaml"))
		_, _, ok := ctx.InlineRef(nil, "#/definitions/Pet")
		assert.False(t, ok)
	})

	t.Run("loads target and restores base", func(t *testing.T) {
		ctx := NewContext(WithRefReader(refs, "api.yaml"))
		target, done, ok := ctx.InlineRef(nil, "other.yaml")
		require.True(t, ok)
		assert.Equal(t, "string", target.Lookup("type").Value)
		assert.Equal(t, "other.yaml", ctx.base)
		done()
		assert.Equal(t, "api.yaml", ctx.base)
	})

	t.Run("local refs inside an inlined document are inlined", func(t *testing.T) {
		nested := mapRefReader{"common.yaml": "properties: {code: {$ref: '#/definitions/Code'}}", "#/definitions/Code": "type: integer"}
		ctx := NewContext(WithRefReader(nested, "api.yaml"))
		_, doneCommon, ok := ctx.InlineRef(nil, "common.yaml")
		require.True(t, ok)
		target, doneCode, ok := ctx.InlineRef(nil, "#/definitions/Code")
		require.True(t, ok)
		assert.Equal(t, "integer", target.Lookup("type").Value)
		doneCode()
		doneCommon()

		_, _, ok = ctx.InlineRef(nil, "#/definitions/Code")
		assert.False(t, ok)
		assert.Empty(t, ctx.Diagnostics())
	})

	t.Run("failure is reported", func(t *testing.T) {
		ctx := NewContext(WithRefReader(refs, "api.yaml"))
		_, _, ok := ctx.InlineRef(nil, "missing.yaml")
		assert.False(t, ok)
		require.Len(t, ctx.Diagnostics(), 1)
		assert.Contains(t, ctx.Diagnostics()[0].Message, "could not resolve missing.yaml")
	})

	t.Run("cycles are reported", func(t *testing.T) {
		cyclic := mapRefReader{"a.yaml": "x: 1", "b.yaml": "y: 2"}
		ctx := NewContext(WithRefReader(cyclic, "a.yaml"))
		_, doneB, ok := ctx.InlineRef(nil, "b.yaml")
		require.True(t, ok)
		_, doneA, ok := ctx.InlineRef(nil, "a.yaml")
		require.True(t, ok)
		_, _, ok = ctx.InlineRef(nil, "b.yaml")
		assert.False(t, ok)
		doneA()
		doneB()
		require.Len(t, ctx.Diagnostics(), 1)
		assert.Contains(t, ctx.Diagnostics()[0].Message, "circular reference")
	})
}
