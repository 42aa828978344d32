package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/erraggy/oascompiler/node"
	"go.yaml.in/yaml/v4"
)

// ExtensionHandlerVersion is sent to external extension handlers.
const ExtensionHandlerVersion = "0.1.0"

// CommandTypeURL identifies values produced by external handlers.
const CommandTypeURL = "type.googleapis.com/gnostic.extension.v1.ExtensionHandlerResponse"

type commandRequest struct {
	Version       string `yaml:"version"`
	ExtensionName string `yaml:"extensionName"`
	YAML          string `yaml:"yaml"`
}

// CommandHandler returns a handler that runs the executable at path for each
// matching key. The request is written to stdin as YAML with the fields
// version, extensionName and yaml. A non-empty stdout is the extension value,
// stored as a typed value when it is valid JSON and as YAML otherwise; empty
// output declines the key.
func CommandHandler(path string) ExtensionHandler {
	return func(key string, n *node.Node, ctx *Context) (*Any, error) {
		if path == "" {
			return nil, nil
		}
		raw, err := node.MarshalYAML(n)
		if err != nil {
			return nil, err
		}
		req, err := yaml.Marshal(commandRequest{
			Version:       ExtensionHandlerVersion,
			ExtensionName: key,
			YAML:          string(raw),
		})
		if err != nil {
			return nil, fmt.Errorf("encoding request for %s: %w", path, err)
		}

		goCtx := context.Background()
		if ctx != nil && ctx.ctx != nil {
			goCtx = ctx.ctx
		}
		cmd := exec.CommandContext(goCtx, path) //nolint:gosec // G204: handler path is caller configuration
		cmd.Stdin = bytes.NewReader(req)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("%s: %w: %s", path, err, msg)
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		out := bytes.TrimSpace(stdout.Bytes())
		if len(out) == 0 {
			return nil, nil
		}
		if json.Valid(out) {
			return &Any{Value: &TypedValue{TypeURL: CommandTypeURL, Value: append([]byte(nil), out...)}}, nil
		}
		return &Any{YAML: string(out) + "\n"}, nil
	}
}
