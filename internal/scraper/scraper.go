package scraper

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pfrederiksen/akleg-senators/internal/browser"
	"github.com/pfrederiksen/akleg-senators/internal/config"
	"github.com/pfrederiksen/akleg-senators/internal/legislator"
	"github.com/pfrederiksen/akleg-senators/internal/logger"
)

const tracerName = "akleg-senators/internal/scraper"

// Options controls a scrape.
type Options struct {
	ListingURL   string
	LinkMarker   string
	Title        string // chamber title, also the prefix stripped from names
	ReadyTimeout time.Duration
	// BackToListing navigates back to the listing after each profile.
	BackToListing bool
}

// Scraper drives one browser session through the listing and its profiles.
type Scraper struct {
	browser browser.Browser
	opts    Options
	tracer  trace.Tracer
}

// New creates a Scraper. Zero-valued options fall back to the Alaska Senate defaults.
func New(b browser.Browser, opts Options) *Scraper {
	if opts.ListingURL == "" {
		opts.ListingURL = config.DefaultListingURL
	}
	if opts.LinkMarker == "" {
		opts.LinkMarker = config.DefaultLinkMarker
	}
	if opts.Title == "" {
		opts.Title = config.DefaultTitle
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = browser.DefaultReadyTimeout
	}
	return &Scraper{
		browser: b,
		opts:    opts,
		tracer:  otel.Tracer(tracerName),
	}
}

// Run scrapes every profile linked from the listing page, sequentially.
// The first navigation or readiness failure aborts the run and no records are
// returned.
func (s *Scraper) Run(ctx context.Context) ([]*legislator.Record, error) {
	ctx, span := s.tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("listing_url", s.opts.ListingURL),
	))
	defer span.End()

	records, err := s.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (s *Scraper) run(ctx context.Context) ([]*legislator.Record, error) {
	if err := s.load(ctx, s.opts.ListingURL); err != nil {
		return nil, err
	}

	base := s.opts.ListingURL
	if loc, err := s.browser.Location(ctx); err == nil && loc != "" {
		base = loc
	}

	links, err := DiscoverLinks(ctx, s.browser, base, s.opts.LinkMarker)
	if err != nil {
		return nil, err
	}
	logger.SetGauge("scraper.links", float64(len(links)))
	logger.Info("discovered profile links", logger.Fields{
		"listing_url": s.opts.ListingURL,
		"count":       len(links),
	})

	records := make([]*legislator.Record, 0, len(links))
	for i, link := range links {
		rec, err := s.scrapeProfile(ctx, link)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		logger.Debug("profile scraped", logger.Fields{
			"index": i + 1,
			"total": len(links),
			"url":   rec.URL,
			"name":  rec.Name,
			"party": rec.Party,
		})

		if s.opts.BackToListing {
			if err := s.browser.Back(ctx); err != nil {
				return nil, fmt.Errorf("returning to listing: %w", err)
			}
			if err := browser.WaitReady(ctx, s.browser, s.opts.ReadyTimeout); err != nil {
				return nil, fmt.Errorf("waiting for listing after back: %w", err)
			}
		}
	}

	return records, nil
}

func (s *Scraper) scrapeProfile(ctx context.Context, link Link) (*legislator.Record, error) {
	ctx, span := s.tracer.Start(ctx, "ScrapeProfile", trace.WithAttributes(
		attribute.String("url", link.URL),
	))
	defer span.End()

	start := time.Now()
	if err := s.load(ctx, link.URL); err != nil {
		span.RecordError(err)
		return nil, err
	}

	rec := legislator.New(s.opts.Title, s.extractFields(ctx, link))

	logger.RecordTiming("scraper.profile", time.Since(start))
	logger.IncrCounter("scraper.profiles")
	return rec, nil
}

// load navigates to url and waits for the document to finish loading.
func (s *Scraper) load(ctx context.Context, url string) error {
	if err := s.browser.Navigate(ctx, url); err != nil {
		return err
	}
	if err := browser.WaitReady(ctx, s.browser, s.opts.ReadyTimeout); err != nil {
		return fmt.Errorf("waiting for %s: %w", url, err)
	}
	return nil
}
