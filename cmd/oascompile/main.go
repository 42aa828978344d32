package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/cmd/oascompile/commands"
	"github.com/erraggy/oascompiler/internal/mcpserver"
)

func main() {
	os.Exit(run(os.Args[1:], commands.StdStreams()))
}

func run(args []string, s commands.Streams) int {
	if len(args) < 1 {
		printUsage(s)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command := args[0]; command {
	case "version", "-v", "--version":
		_, _ = fmt.Fprintf(s.Out, "oascompile v%s\n", oascompiler.Version())
		if len(args) > 1 && args[1] == "-v" {
			_, _ = fmt.Fprintln(s.Out, oascompiler.BuildInfo())
		}
	case "help", "-h", "--help":
		printUsage(s)
	case "compile":
		err = commands.HandleCompile(ctx, args[1:], s)
	case "detect":
		err = commands.HandleDetect(ctx, args[1:], s)
	case "compare":
		err = commands.HandleCompare(ctx, args[1:], s)
	case "discovery":
		err = commands.HandleDiscovery(ctx, args[1:], s)
	case "mcp":
		err = mcpserver.Run(ctx)
	default:
		_, _ = fmt.Fprintf(s.Err, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			_, _ = fmt.Fprintf(s.Err, "Did you mean '%s'?\n", suggestion)
		}
		_, _ = fmt.Fprintln(s.Err)
		printUsage(s)
		return 1
	}
	if err != nil {
		_, _ = fmt.Fprintf(s.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(s commands.Streams) {
	_, _ = fmt.Fprintf(s.Err, `oascompile - compile OpenAPI and Discovery documents into typed models

Usage:
  oascompile <command> [flags] [arguments]

Commands:
  compile     Compile a document and print its model
  detect      Report the format of one or more documents
  compare     Compile a document and diff the model against a reference
  discovery   List and compile APIs from the Google Discovery directory
  mcp         Serve the compiler as MCP tools over stdio
  version     Show the version (-v for build details)
  help        Show this help

Run 'oascompile <command> -h' for command flags.
`)
}

var commandNames = []string{"compile", "detect", "compare", "discovery", "mcp", "version", "help"}

// suggestCommand returns the known command closest to input, or "" when
// none is within two edits.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
