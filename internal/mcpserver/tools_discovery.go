package mcpserver

import (
	"context"

	"github.com/erraggy/oascompiler/discovery"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type discoveryListInput struct {
	Name      string `json:"name,omitempty"      jsonschema:"Only return entries for this API name"`
	Preferred bool   `json:"preferred,omitempty" jsonschema:"Only return preferred versions"`
	Offset    int    `json:"offset,omitempty"    jsonschema:"Skip the first N entries"`
	Limit     int    `json:"limit,omitempty"     jsonschema:"Maximum number of entries to return"`
}

type discoveryAPI struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Version          string `json:"version"`
	Title            string `json:"title,omitempty"`
	Preferred        bool   `json:"preferred,omitempty"`
	DiscoveryRestURL string `json:"discovery_rest_url"`
}

type discoveryListOutput struct {
	Total    int            `json:"total"`
	Returned int            `json:"returned"`
	APIs     []discoveryAPI `json:"apis,omitempty"`
}

// fetchDirectory reads the Discovery directory. Tests replace it.
var fetchDirectory = func(ctx context.Context) (*discovery.List, error) {
	r, err := newDocumentReader()
	if err != nil {
		return nil, err
	}
	return discovery.FetchList(ctx, r)
}

func handleDiscoveryList(ctx context.Context, _ *mcp.CallToolRequest, input discoveryListInput) (*mcp.CallToolResult, discoveryListOutput, error) {
	list, err := fetchDirectory(ctx)
	if err != nil {
		return errResult(err), discoveryListOutput{}, nil
	}

	var matched []discoveryAPI
	for _, api := range list.Items {
		if input.Name != "" && api.Name != input.Name {
			continue
		}
		if input.Preferred && !api.Preferred {
			continue
		}
		matched = append(matched, discoveryAPI{
			ID:               api.ID,
			Name:             api.Name,
			Version:          api.Version,
			Title:            api.Title,
			Preferred:        api.Preferred,
			DiscoveryRestURL: api.DiscoveryRestURL,
		})
	}

	page := paginate(matched, input.Offset, input.Limit)
	return nil, discoveryListOutput{Total: len(matched), Returned: len(page), APIs: page}, nil
}
