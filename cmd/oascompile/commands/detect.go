package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/cliutil"
	"github.com/erraggy/oascompiler/internal/compile"
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/reader"
)

// HandleDetect executes the detect command, printing the format of each
// argument as "<format>\t<locator>".
func HandleDetect(ctx context.Context, args []string, s Streams) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(s.Err)
	var rf readerFlags
	fs.DurationVar(&rf.timeout, "timeout", 0, "HTTP timeout for remote documents (0 uses the default)")
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oascompile detect [flags] <file|url|->...\n\n")
		_, _ = fmt.Fprintf(output, "Report whether each document is OpenAPI v2, OpenAPI v3 or Discovery.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("detect command requires at least one file path, URL or '-'")
	}

	var r *reader.Reader
	for _, arg := range fs.Args() {
		var root *node.Node
		if arg == StdinFilePath {
			data, err := io.ReadAll(s.In)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			if root, err = compiler.Decode(data, "document"); err != nil {
				return err
			}
		} else {
			var err error
			if r == nil {
				if r, err = rf.open(compiler.NopLogger{}); err != nil {
					return err
				}
			}
			if root, err = r.ReadNode(ctx, arg); err != nil {
				return err
			}
		}
		cliutil.Writef(s.Out, "%s\t%s\n", compile.Detect(root), arg)
	}
	return nil
}
