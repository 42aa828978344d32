package reader

import (
	"fmt"
	"net/http"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Reader.
type Option func(*config) error

type config struct {
	httpClient  *http.Client
	userAgent   string
	maxFileSize int64
	logger      compiler.Logger
	registerer  prometheus.Registerer
	fetcher     Fetcher
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		maxFileSize: DefaultMaxFileSize,
		logger:      compiler.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithHTTPClient sets the client used for http and https locators.
// Default: a client with a 30 second timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return &oaserrors.ConfigError{Option: "WithHTTPClient", Message: "client cannot be nil"}
		}
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with HTTP requests.
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithLogger sets the logger for cache and fetch events.
func WithLogger(l compiler.Logger) Option {
	return func(cfg *config) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	}
}

// WithMaxFileSize bounds the size of a single document in bytes.
func WithMaxFileSize(size int64) Option {
	return func(cfg *config) error {
		if size <= 0 {
			return &oaserrors.ConfigError{
				Option:  "WithMaxFileSize",
				Value:   size,
				Message: fmt.Sprintf("must be positive, got %d", size),
			}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithMetrics registers fetch counters and latencies with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *config) error {
		cfg.registerer = reg
		return nil
	}
}

// WithFetcher replaces the built-in filesystem and HTTP transport. The
// fetcher receives normalized locators and is called at most once per
// locator for as long as its result stays cached.
func WithFetcher(f Fetcher) Option {
	return func(cfg *config) error {
		cfg.fetcher = f
		return nil
	}
}
