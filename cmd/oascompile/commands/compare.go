package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erraggy/oascompiler/internal/cliutil"
	"github.com/erraggy/oascompiler/internal/compile"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrModelMismatch is returned by compare when the models differ.
var ErrModelMismatch = errors.New("compiled model differs from reference")

// CompareFlags contains flags for the compare command
type CompareFlags struct {
	Format       string
	OutputFormat string
	Inline       bool
	reader       readerFlags
}

// SetupCompareFlags creates and configures a FlagSet for the compare command.
func SetupCompareFlags() (*flag.FlagSet, *CompareFlags) {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	flags := &CompareFlags{}

	fs.StringVar(&flags.Format, "format", "auto", "input format: auto, v2, v3 or discovery")
	fs.StringVar(&flags.OutputFormat, "output-format", OutputJSON, "encoding of the reference file: json or yaml")
	fs.BoolVar(&flags.Inline, "inline", false, "inline references to other documents")
	fs.DurationVar(&flags.reader.timeout, "timeout", 0, "HTTP timeout for remote documents (0 uses the default)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oascompile compare [flags] <file|url> <reference>\n\n")
		_, _ = fmt.Fprintf(output, "Compile a document and compare the model with a reference rendering.\n")
		_, _ = fmt.Fprintf(output, "Differences are printed as a line diff and the command exits non-zero.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oascompile compare petstore.yaml testdata/petstore.json\n")
	}

	return fs, flags
}

// HandleCompare executes the compare command.
func HandleCompare(ctx context.Context, args []string, s Streams) error {
	fs, flags := SetupCompareFlags()
	fs.SetOutput(s.Err)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("compare command requires a document and a reference file")
	}
	if err := ValidateOutputFormat(flags.OutputFormat); err != nil {
		return err
	}
	format, err := ParseFormatFlag(flags.Format)
	if err != nil {
		return err
	}

	want, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("reading reference: %w", err)
	}
	res, err := compileInput(ctx, fs.Arg(0), s.In, flags.reader, compile.Options{Format: format, Inline: flags.Inline})
	if err != nil {
		return err
	}
	got, err := render(res, flags.OutputFormat)
	if err != nil {
		return err
	}

	if bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(got)) {
		cliutil.Writef(s.Out, "%s matches %s\n", fs.Arg(0), fs.Arg(1))
		return nil
	}
	writeLineDiff(s.Out, string(want), string(got))
	return fmt.Errorf("%w: %s", ErrModelMismatch, fs.Arg(1))
}

// writeLineDiff prints a unified-style line diff from want to got.
func writeLineDiff(w io.Writer, want, got string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	if !isTerminal(w) {
		removed.DisableColor()
		added.DisableColor()
	}

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				cliutil.Writef(w, "%s\n", removed.Sprint("- "+line))
			case diffmatchpatch.DiffInsert:
				cliutil.Writef(w, "%s\n", added.Sprint("+ "+line))
			case diffmatchpatch.DiffEqual:
				cliutil.Writef(w, "  %s\n", line)
			}
		}
	}
}
