package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-resty/resty/v2"
)

const (
	// UserAgent identifies the static engine to the site.
	UserAgent     = "akleg-senators/1.0 (github.com/pfrederiksen/akleg-senators)"
	staticTimeout = 30 * time.Second
)

// StaticOptions configures the HTTP engine.
type StaticOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// Static is a Browser that fetches pages over HTTP and never runs JavaScript.
// Evaluate only understands ReadyStateScript and VisibleTextScript.
type Static struct {
	client  *resty.Client
	history []*staticPage
}

type staticPage struct {
	url string
	raw string
	doc *goquery.Document
}

// NewStatic creates an HTTP engine.
func NewStatic(opts StaticOptions) *Static {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = staticTimeout
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	return &Static{client: client}
}

func (s *Static) current() (*staticPage, error) {
	if len(s.history) == 0 {
		return nil, ErrNoPage
	}
	return s.history[len(s.history)-1], nil
}

// Navigate fetches url and pushes it onto the history.
func (s *Static) Navigate(ctx context.Context, url string) error {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status code: %d", url, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	final := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}

	s.history = append(s.history, &staticPage{
		url: final,
		raw: string(resp.Body()),
		doc: doc,
	})
	return nil
}

// FindAll matches a CSS selector against the parsed page.
func (s *Static) FindAll(_ context.Context, selector string) ([]Element, error) {
	page, err := s.current()
	if err != nil {
		return nil, err
	}

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}

	var elems []Element
	page.doc.FindMatcher(matcher).Each(func(_ int, sel *goquery.Selection) {
		elems = append(elems, &staticElement{sel: sel})
	})
	return elems, nil
}

// Evaluate answers the ready-state and visible-text expressions.
func (s *Static) Evaluate(_ context.Context, expr string, res any) error {
	page, err := s.current()
	if err != nil {
		return err
	}

	var value string
	switch expr {
	case ReadyStateScript:
		value = "complete"
	case VisibleTextScript:
		value = VisibleText(page.doc.Find("body").Nodes...)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScript, expr)
	}

	out, ok := res.(*string)
	if !ok {
		return fmt.Errorf("static engine: result must be *string, got %T", res)
	}
	*out = value
	return nil
}

// Source returns the markup exactly as served.
func (s *Static) Source(_ context.Context) (string, error) {
	page, err := s.current()
	if err != nil {
		return "", err
	}
	return page.raw, nil
}

// Back drops the current page. On the first page it does nothing.
func (s *Static) Back(_ context.Context) error {
	if len(s.history) > 1 {
		s.history = s.history[:len(s.history)-1]
	}
	return nil
}

// Location returns the final address of the current page.
func (s *Static) Location(_ context.Context) (string, error) {
	page, err := s.current()
	if err != nil {
		return "", err
	}
	return page.url, nil
}

// Close forgets the history. The HTTP client needs no teardown.
func (s *Static) Close() error {
	s.history = nil
	return nil
}

type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) Text(_ context.Context) (string, error) {
	return VisibleText(e.sel.Nodes...), nil
}

func (e *staticElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}
