// Package commands provides CLI command handlers for oascompile.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/cliutil"
	"github.com/erraggy/oascompiler/internal/compile"
	"github.com/erraggy/oascompiler/reader"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Output format constants
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Streams are the standard streams a command writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// newReader builds the document reader. Tests swap it for one with a fake fetcher.
var newReader = reader.New

// readerFlags are shared by every command that reads documents.
type readerFlags struct {
	timeout     time.Duration
	maxFileSize int64
	verbose     bool
}

func (f readerFlags) logger(w io.Writer) compiler.Logger {
	if !f.verbose {
		return compiler.NopLogger{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return compiler.NewSlogAdapter(slog.New(h))
}

func (f readerFlags) open(logger compiler.Logger) (*reader.Reader, error) {
	opts := []reader.Option{
		reader.WithLogger(logger),
		reader.WithUserAgent(oascompiler.UserAgent()),
	}
	if f.timeout > 0 {
		opts = append(opts, reader.WithHTTPClient(&http.Client{Timeout: f.timeout}))
	}
	if f.maxFileSize > 0 {
		opts = append(opts, reader.WithMaxFileSize(f.maxFileSize))
	}
	return newReader(opts...)
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != OutputJSON && format != OutputYAML {
		return fmt.Errorf("invalid output format '%s'. Valid formats: %s, %s", format, OutputJSON, OutputYAML)
	}
	return nil
}

// ParseFormatFlag maps the -format flag to a Format. "auto" detects it.
func ParseFormatFlag(s string) (oascompiler.Format, error) {
	if s == "" || s == "auto" {
		return oascompiler.FormatUnknown, nil
	}
	f, ok := oascompiler.ParseFormat(s)
	if !ok {
		return oascompiler.FormatUnknown, fmt.Errorf("invalid format '%s'. Valid formats: auto, v2, v3, discovery", s)
	}
	return f, nil
}

// render encodes res as json or yaml.
func render(res *compile.Result, format string) ([]byte, error) {
	if format == OutputYAML {
		return res.YAML()
	}
	return res.JSON()
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	return cliutil.WriteOutput(w, path, data)
}

// diagnosticPrinter writes diagnostics one per line, colored when the
// destination is a terminal.
type diagnosticPrinter struct {
	w        io.Writer
	position *color.Color
	path     *color.Color
}

func newDiagnosticPrinter(w io.Writer) *diagnosticPrinter {
	p := &diagnosticPrinter{
		w:        w,
		position: color.New(color.Faint),
		path:     color.New(color.FgYellow, color.Bold),
	}
	if isTerminal(w) {
		p.position.EnableColor()
		p.path.EnableColor()
	} else {
		p.position.DisableColor()
		p.path.DisableColor()
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *diagnosticPrinter) print(locator string, diags []compiler.Diagnostic) {
	for _, d := range diags {
		var b strings.Builder
		if locator != "" {
			b.WriteString(locator)
			b.WriteString(":")
		}
		if d.Line > 0 {
			b.WriteString(p.position.Sprintf("%d:%d:", d.Line, d.Column))
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.path.Sprint(d.PathString()))
		b.WriteString(" ")
		b.WriteString(d.Message)
		cliutil.Writef(p.w, "%s\n", b.String())
	}
}
