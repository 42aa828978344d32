package discovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/erraggy/oascompiler/reader"
)

// APIsListServiceURL is the Discovery directory of Google APIs.
const APIsListServiceURL = "https://www.googleapis.com/discovery/v1/apis"

// List is the Discovery directory.
type List struct {
	Kind             string `json:"kind"`
	DiscoveryVersion string `json:"discoveryVersion"`
	Items            []*API `json:"items"`
}

// API is one entry of the directory.
type API struct {
	Kind              string `json:"kind"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	Version           string `json:"version"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	DiscoveryRestURL  string `json:"discoveryRestUrl"`
	DocumentationLink string `json:"documentationLink,omitempty"`
	Preferred         bool   `json:"preferred,omitempty"`
}

// ParseList decodes a directory listing.
func ParseList(data []byte) (*List, error) {
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &oaserrors.ParseError{Message: "decoding Discovery directory", Cause: err}
	}
	return &l, nil
}

// FetchList reads the directory at APIsListServiceURL through r.
func FetchList(ctx context.Context, r *reader.Reader) (*List, error) {
	data, err := r.Fetch(ctx, APIsListServiceURL)
	if err != nil {
		return nil, fmt.Errorf("discovery: fetching directory: %w", err)
	}
	return ParseList(data)
}

// APIWithNameAndVersion returns the entry for name at version, or nil.
func (l *List) APIWithNameAndVersion(name, version string) *API {
	for _, api := range l.Items {
		if api.Name == name && api.Version == version {
			return api
		}
	}
	return nil
}

// PreferredAPI returns the preferred version of name, or nil.
func (l *List) PreferredAPI(name string) *API {
	for _, api := range l.Items {
		if api.Name == name && api.Preferred {
			return api
		}
	}
	return nil
}

// FetchDocument reads and builds the Discovery document of api through r.
func FetchDocument(ctx context.Context, r *reader.Reader, api *API) (*Document, []compiler.Diagnostic, error) {
	data, err := r.Fetch(ctx, api.DiscoveryRestURL)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery: fetching %s: %w", api.ID, err)
	}
	return ParseDocument(data)
}
