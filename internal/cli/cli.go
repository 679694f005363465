package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/akleg-senators/internal/browser"
	"github.com/pfrederiksen/akleg-senators/internal/config"
	"github.com/pfrederiksen/akleg-senators/internal/legislator"
	"github.com/pfrederiksen/akleg-senators/internal/logger"
	"github.com/pfrederiksen/akleg-senators/internal/scraper"
	"github.com/pfrederiksen/akleg-senators/internal/storage"
	"github.com/pfrederiksen/akleg-senators/internal/telemetry"
)

const (
	ExitSuccess = 0
	ExitError   = 1

	serviceName     = "akleg-senators"
	shutdownTimeout = 5 * time.Second
)

var (
	flagConfig        string
	flagListingURL    string
	flagLinkMarker    string
	flagOutput        string
	flagEngine        string
	flagShowBrowser   bool
	flagChromePath    string
	flagTimeout       string
	flagBackToListing bool
	flagTable         bool
	flagVerify        bool
	flagOTLPEndpoint  string
	flagLogLevel      string
	flagVerbose       bool
)

// newBrowser opens the session for the configured engine.
var newBrowser = func(ctx context.Context, cfg config.Config) (browser.Browser, error) {
	if cfg.Engine == config.EngineHTTP {
		return browser.NewStatic(browser.StaticOptions{UserAgent: cfg.UserAgent}), nil
	}

	c, err := browser.NewChrome(ctx, browser.ChromeOptions{
		Headless:  !cfg.ShowBrowser,
		ExecPath:  cfg.ChromePath,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "akleg-senators",
		Short: "Scrape Alaska State Senate member profiles to JSON",
		Long: `A CLI tool that loads the Alaska Legislature senate listing in a headless
browser, visits every senator's profile, and writes name, party, leadership
role, region and contact details to a JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a JSON5 config file (a .local variant next to it overrides it)")
	cmd.Flags().StringVar(&flagListingURL, "listing-url", config.DefaultListingURL, "Senate listing page")
	cmd.Flags().StringVar(&flagLinkMarker, "link-marker", config.DefaultLinkMarker, "Substring identifying profile links")
	cmd.Flags().StringVar(&flagOutput, "output", config.DefaultOutputPath, "Output JSON file")
	cmd.Flags().StringVar(&flagEngine, "engine", config.EngineChrome, "Browser engine: chrome or http")
	cmd.Flags().BoolVar(&flagShowBrowser, "show-browser", false, "Run Chrome with a visible window")
	cmd.Flags().StringVar(&flagChromePath, "chrome-path", "", "Chrome executable (default: $CHROME_PATH or autodetect)")
	cmd.Flags().StringVar(&flagTimeout, "timeout", "15s", "Page readiness timeout")
	cmd.Flags().BoolVar(&flagBackToListing, "back-to-listing", false, "Navigate back to the listing after each profile")
	cmd.Flags().BoolVar(&flagTable, "table", false, "Print the scraped records as a table")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-read the output file and check the record count")
	cmd.Flags().StringVar(&flagOTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP endpoint (default: $OTEL_EXPORTER_OTLP_ENDPOINT)")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	return cmd
}

// resolveConfig loads the config file and applies the flags the user set.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("listing-url") {
		cfg.ListingURL = flagListingURL
	}
	if flags.Changed("link-marker") {
		cfg.LinkMarker = flagLinkMarker
	}
	if flags.Changed("output") {
		cfg.OutputPath = flagOutput
	}
	if flags.Changed("engine") {
		cfg.Engine = flagEngine
	}
	if flags.Changed("show-browser") {
		cfg.ShowBrowser = flagShowBrowser
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = flagChromePath
	}
	if flags.Changed("timeout") {
		cfg.ReadyTimeout = flagTimeout
	}
	if flags.Changed("back-to-listing") {
		cfg.BackToListing = flagBackToListing
	}
	if flags.Changed("verify") {
		cfg.Verify = flagVerify
	}
	if flags.Changed("otlp-endpoint") {
		cfg.OTLPEndpoint = flagOTLPEndpoint
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	tel, err := telemetry.Setup(cmd.Context(), serviceName, telemetry.Config{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Headers:  cfg.OTLPHeaders,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer shutdownTelemetry(tel)

	logger.Info("starting scrape", logger.Fields{
		"listing_url": cfg.ListingURL,
		"engine":      cfg.Engine,
		"output":      cfg.OutputPath,
	})

	records, err := scrape(cmd.Context(), cfg, scraper.Options{
		ListingURL:    cfg.ListingURL,
		LinkMarker:    cfg.LinkMarker,
		Title:         cfg.Title,
		ReadyTimeout:  timeout,
		BackToListing: cfg.BackToListing,
	})
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	path, err := storage.WriteRecords(cfg.OutputPath, records)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if cfg.Verify {
		if err := verifyOutput(path, len(records)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	WriteSummary(out, len(records), path, time.Since(start))
	if flagTable {
		WriteTable(out, records)
	}

	logger.Debug("run metrics", logger.Fields(logger.GetMetricsSnapshot()))
	return nil
}

// scrape runs the scraper in a fresh browser session and closes the session
// whatever the outcome.
func scrape(ctx context.Context, cfg config.Config, opts scraper.Options) ([]*legislator.Record, error) {
	b, err := newBrowser(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("closing browser", nil, err)
		}
	}()

	records, err := scraper.New(b, opts).Run(ctx)
	if err != nil {
		logger.Error("scrape failed", logger.Fields{"listing_url": opts.ListingURL}, err)
		return nil, err
	}
	return records, nil
}

// verifyOutput reads path back and checks it holds want records.
func verifyOutput(path string, want int) error {
	records, err := storage.ReadRecords(path)
	if err != nil {
		return fmt.Errorf("verifying output: %w", err)
	}
	if len(records) != want {
		return fmt.Errorf("verifying output: %s holds %d records, want %d", path, len(records), want)
	}
	logger.Debug("output verified", logger.Fields{"path": path, "records": want})
	return nil
}

func shutdownTelemetry(tel telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warn("flushing traces", nil, err)
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
