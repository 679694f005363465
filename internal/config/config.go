// Package config resolves the scraper's settings from defaults, an optional JSON5
// file with a ".local" override next to it, and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

const (
	DefaultListingURL = "https://akleg.gov/senate.php"
	DefaultLinkMarker = "legislator.php?id="
	DefaultOutputPath = "senators.json"
	DefaultTitle      = "Senator"

	EngineChrome = "chrome"
	EngineHTTP   = "http"

	OTLPProtocolHTTP = "http"
	OTLPProtocolGRPC = "grpc"
)

// Config holds every setting of a run.
type Config struct {
	ListingURL string `json:"listing_url"`
	LinkMarker string `json:"link_marker"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`

	Engine       string `json:"engine"`
	ShowBrowser  bool   `json:"show_browser"`
	ChromePath   string `json:"chrome_path"`
	UserAgent    string `json:"user_agent"`
	ReadyTimeout string `json:"ready_timeout"` // Go duration, e.g. "15s"

	BackToListing bool   `json:"back_to_listing"`
	Verify        bool   `json:"verify"` // re-read the output and check the record count
	LogLevel      string `json:"log_level"`

	// Traces are exported only when OTLPEndpoint is set.
	OTLPEndpoint string            `json:"otlp_endpoint"`
	OTLPProtocol string            `json:"otlp_protocol"`
	OTLPHeaders  map[string]string `json:"otlp_headers"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		ListingURL:   DefaultListingURL,
		LinkMarker:   DefaultLinkMarker,
		OutputPath:   DefaultOutputPath,
		Title:        DefaultTitle,
		Engine:       EngineChrome,
		ReadyTimeout: "15s",
		LogLevel:     "info",
		OTLPProtocol: OTLPProtocolHTTP,
	}
}

// Load returns Default merged with the file at path (if path is non-empty) and
// with CHROME_PATH and OTEL_EXPORTER_OTLP_ENDPOINT from the environment. A
// missing file is an error; a missing ".local" override is not. Empty values in
// the main file keep the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		fromFile, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
			return cfg, fmt.Errorf("merging config: %w", err)
		}
	}

	if p := os.Getenv("CHROME_PATH"); p != "" {
		cfg.ChromePath = p
	}
	if e := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); e != "" {
		cfg.OTLPEndpoint = e
	}

	return cfg, nil
}

// readFile reads <name>.<ext> and overlays <name>.local.<ext> when present.
// The overlay is decoded onto the main file, so every key it names wins,
// including false and "".
func readFile(path string) (Config, error) {
	var out Config

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading config: %w", err)
	}
	if err := json5.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing config %s: %w", path, err)
	}

	local := localPath(path)
	data, err = os.ReadFile(local)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("reading config: %w", err)
	}

	if err := json5.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing config %s: %w", local, err)
	}
	return out, nil
}

// localPath turns "dir/scraper.json5" into "dir/scraper.local.json5".
func localPath(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

// Timeout parses ReadyTimeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.ReadyTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid ready_timeout %q: %w", c.ReadyTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid ready_timeout %q: must be positive", c.ReadyTimeout)
	}
	return d, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ListingURL) == "":
		return errors.New("listing_url is required")
	case strings.TrimSpace(c.LinkMarker) == "":
		return errors.New("link_marker is required")
	case strings.TrimSpace(c.OutputPath) == "":
		return errors.New("output_path is required")
	case c.Engine != EngineChrome && c.Engine != EngineHTTP:
		return fmt.Errorf("invalid engine: %s (must be '%s' or '%s')", c.Engine, EngineChrome, EngineHTTP)
	case c.OTLPEndpoint != "" && c.OTLPProtocol != OTLPProtocolHTTP && c.OTLPProtocol != OTLPProtocolGRPC:
		return fmt.Errorf("invalid otlp_protocol: %s (must be '%s' or '%s')", c.OTLPProtocol, OTLPProtocolHTTP, OTLPProtocolGRPC)
	}
	_, err := c.Timeout()
	return err
}
