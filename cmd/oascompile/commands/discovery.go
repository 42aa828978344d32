package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/discovery"
	"github.com/erraggy/oascompiler/internal/cliutil"
	"github.com/erraggy/oascompiler/internal/compile"
)

// HandleDiscovery executes the discovery command and its list and get
// subcommands.
func HandleDiscovery(ctx context.Context, args []string, s Streams) error {
	if len(args) == 0 {
		discoveryUsage(s)
		return fmt.Errorf("discovery command requires a subcommand: list or get")
	}
	switch args[0] {
	case "list":
		return handleDiscoveryList(ctx, args[1:], s)
	case "get":
		return handleDiscoveryGet(ctx, args[1:], s)
	case "help", "-h", "--help":
		discoveryUsage(s)
		return nil
	}
	discoveryUsage(s)
	return fmt.Errorf("unknown discovery subcommand: %s", args[0])
}

func discoveryUsage(s Streams) {
	cliutil.Writef(s.Err, `Usage: oascompile discovery <subcommand> [flags]

Browse the Google API Discovery directory.

Subcommands:
  list [-name name] [-preferred]     List directory entries
  get [-version v] [flags] <name>    Fetch and compile an API's Discovery document
`)
}

func handleDiscoveryList(ctx context.Context, args []string, s Streams) error {
	fs := flag.NewFlagSet("discovery list", flag.ContinueOnError)
	fs.SetOutput(s.Err)
	name := fs.String("name", "", "only list entries for this API name")
	preferred := fs.Bool("preferred", false, "only list preferred versions")
	var rf readerFlags
	fs.DurationVar(&rf.timeout, "timeout", 0, "HTTP timeout (0 uses the default)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	r, err := rf.open(compiler.NopLogger{})
	if err != nil {
		return err
	}
	list, err := discovery.FetchList(ctx, r)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.Out, 0, 4, 2, ' ', 0)
	cliutil.Writef(tw, "NAME\tVERSION\tPREFERRED\tTITLE\n")
	for _, api := range list.Items {
		if *name != "" && api.Name != *name {
			continue
		}
		if *preferred && !api.Preferred {
			continue
		}
		cliutil.Writef(tw, "%s\t%s\t%t\t%s\n", api.Name, api.Version, api.Preferred, api.Title)
	}
	return tw.Flush()
}

func handleDiscoveryGet(ctx context.Context, args []string, s Streams) error {
	fs := flag.NewFlagSet("discovery get", flag.ContinueOnError)
	fs.SetOutput(s.Err)
	version := fs.String("version", "", "API version (default: the preferred version)")
	output := fs.String("o", "", "write the model to this file instead of stdout")
	outputFormat := fs.String("output-format", OutputJSON, "model encoding: json or yaml")
	quiet := fs.Bool("q", false, "do not print diagnostics")
	var rf readerFlags
	fs.DurationVar(&rf.timeout, "timeout", 0, "HTTP timeout (0 uses the default)")
	fs.BoolVar(&rf.verbose, "v", false, "log reader activity to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		discoveryUsage(s)
		return fmt.Errorf("discovery get requires exactly one API name")
	}
	if err := ValidateOutputFormat(*outputFormat); err != nil {
		return err
	}

	logger := rf.logger(s.Err)
	r, err := rf.open(logger)
	if err != nil {
		return err
	}
	list, err := discovery.FetchList(ctx, r)
	if err != nil {
		return err
	}
	apiName := fs.Arg(0)
	var api *discovery.API
	if *version != "" {
		api = list.APIWithNameAndVersion(apiName, *version)
	} else {
		api = list.PreferredAPI(apiName)
	}
	if api == nil {
		return fmt.Errorf("no API named %q (version %q) in the Discovery directory", apiName, *version)
	}

	res, err := compile.Locator(ctx, r, api.DiscoveryRestURL, compile.Options{
		Format: oascompiler.FormatDiscovery,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if !*quiet {
		newDiagnosticPrinter(s.Err).print(api.ID, res.Diagnostics)
	}
	data, err := render(res, *outputFormat)
	if err != nil {
		return err
	}
	return writeOutput(s.Out, *output, data)
}
