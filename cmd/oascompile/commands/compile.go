package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/compile"
)

// CompileFlags contains flags for the compile command
type CompileFlags struct {
	Format       string
	Output       string
	OutputFormat string
	Inline       bool
	MaxDepth     int
	Strict       bool
	Quiet        bool
	Extensions   extensionFlags
	reader       readerFlags
}

// extensionFlags collects repeated -x name=command flags.
type extensionFlags []string

func (e *extensionFlags) String() string { return strings.Join(*e, ",") }

func (e *extensionFlags) Set(v string) error {
	name, command, ok := strings.Cut(v, "=")
	if !ok || name == "" || command == "" {
		return fmt.Errorf("expected name=command, got %q", v)
	}
	*e = append(*e, v)
	return nil
}

// registry builds an extension registry from the collected flags. A name
// ending in "*" matches every key with that prefix.
func (e extensionFlags) registry() *compiler.ExtensionRegistry {
	if len(e) == 0 {
		return nil
	}
	r := compiler.NewExtensionRegistry()
	for _, v := range e {
		name, command, _ := strings.Cut(v, "=")
		var m compiler.Matcher
		if prefix, ok := strings.CutSuffix(name, "*"); ok {
			m = compiler.MatchPrefix(prefix)
		} else {
			m = compiler.MatchName(name)
		}
		r.Register(m, compiler.CommandHandler(command))
	}
	return r
}

// SetupCompileFlags creates and configures a FlagSet for the compile command.
func SetupCompileFlags() (*flag.FlagSet, *CompileFlags) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	flags := &CompileFlags{}

	fs.StringVar(&flags.Format, "format", "auto", "input format: auto, v2, v3 or discovery")
	fs.StringVar(&flags.Output, "o", "", "write the model to this file instead of stdout")
	fs.StringVar(&flags.OutputFormat, "output-format", OutputJSON, "model encoding: json or yaml")
	fs.BoolVar(&flags.Inline, "inline", false, "inline references to other documents")
	fs.IntVar(&flags.MaxDepth, "max-depth", 0, "maximum nesting depth (0 uses the default)")
	fs.BoolVar(&flags.Strict, "strict", false, "fail when any diagnostic is reported")
	fs.BoolVar(&flags.Quiet, "q", false, "do not print diagnostics")
	fs.Var(&flags.Extensions, "x", "extension handler as name=command (repeatable; name may end in *)")
	fs.DurationVar(&flags.reader.timeout, "timeout", 0, "HTTP timeout for remote documents (0 uses the default)")
	fs.Int64Var(&flags.reader.maxFileSize, "max-file-size", 0, "maximum document size in bytes (0 uses the default)")
	fs.BoolVar(&flags.reader.verbose, "v", false, "log reader and compiler activity to stderr")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oascompile compile [flags] <file|url|->\n\n")
		_, _ = fmt.Fprintf(output, "Compile an OpenAPI v2, OpenAPI v3 or Discovery document into its typed model.\n")
		_, _ = fmt.Fprintf(output, "Diagnostics are printed to stderr; the model is printed to stdout.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oascompile compile openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  oascompile compile -format v2 -inline -o petstore.json swagger.yaml\n")
		_, _ = fmt.Fprintf(output, "  oascompile compile -x 'x-book-*=./book-handler' books.yaml\n")
		_, _ = fmt.Fprintf(output, "  cat openapi.json | oascompile compile -output-format yaml -\n")
	}

	return fs, flags
}

// HandleCompile executes the compile command.
func HandleCompile(ctx context.Context, args []string, s Streams) error {
	fs, flags := SetupCompileFlags()
	fs.SetOutput(s.Err)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("compile command requires exactly one file path, URL or '-'")
	}
	if err := ValidateOutputFormat(flags.OutputFormat); err != nil {
		return err
	}
	format, err := ParseFormatFlag(flags.Format)
	if err != nil {
		return err
	}

	logger := flags.reader.logger(s.Err)
	opts := compile.Options{
		Format:     format,
		Inline:     flags.Inline,
		MaxDepth:   flags.MaxDepth,
		Extensions: flags.Extensions.registry(),
		Logger:     logger,
		Strict:     flags.Strict,
	}

	res, err := compileInput(ctx, fs.Arg(0), s.In, flags.reader, opts)
	if res != nil && !flags.Quiet {
		newDiagnosticPrinter(s.Err).print(res.Locator, res.Diagnostics)
	}
	if err != nil {
		return err
	}

	data, err := render(res, flags.OutputFormat)
	if err != nil {
		return err
	}
	return writeOutput(s.Out, flags.Output, data)
}

// compileInput builds the document named by arg, reading stdin for "-".
func compileInput(ctx context.Context, arg string, stdin io.Reader, rf readerFlags, opts compile.Options) (*compile.Result, error) {
	if arg == StdinFilePath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return compile.Bytes(ctx, data, opts)
	}
	r, err := rf.open(opts.Logger)
	if err != nil {
		return nil, err
	}
	return compile.Locator(ctx, r, arg, opts)
}
