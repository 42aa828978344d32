package compiler

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompiler/internal/pathutil"
)

// Segment is one step of a diagnostic path: a field name or a sequence index.
type Segment = pathutil.Segment

// Diagnostic is a recoverable structural problem found while building a model.
type Diagnostic struct {
	// Path is the field path at the time of the report.
	Path []Segment
	// Message describes the problem.
	Message string
	// Line and Column locate the offending node (0 when unknown).
	Line   int
	Column int
}

// PathString renders Path, for example "$.paths./pets.get.responses.200".
func (d Diagnostic) PathString() string {
	return pathutil.Format(d.Path)
}

// String renders the diagnostic as "[line,col] path message", omitting the
// position when it is unknown.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("[%d,%d] %s %s", d.Line, d.Column, d.PathString(), d.Message)
	}
	return d.PathString() + " " + d.Message
}

// ErrorGroup lets callers escalate diagnostics to an error.
type ErrorGroup struct {
	Diagnostics []Diagnostic
}

// Error joins the diagnostics, one per line.
func (g *ErrorGroup) Error() string {
	lines := make([]string, len(g.Diagnostics))
	for i, d := range g.Diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// NewErrorGroup returns nil when there are no diagnostics.
func NewErrorGroup(diags []Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	return &ErrorGroup{Diagnostics: diags}
}
