package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pfrederiksen/akleg-senators/internal/browser"
)

// Link is a profile link found on the listing page.
type Link struct {
	URL  string
	Text string // anchor text, trimmed
}

// DiscoverLinks returns the distinct profile links on the loaded listing page in
// first-seen order. Hrefs are resolved against base and kept when they contain
// marker. Anchors whose href cannot be read are skipped.
func DiscoverLinks(ctx context.Context, b browser.Browser, base, marker string) ([]Link, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing listing URL: %w", err)
	}

	anchors, err := b.FindAll(ctx, "a[href]")
	if err != nil {
		return nil, fmt.Errorf("finding links: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]Link, 0)
	for _, a := range anchors {
		href, ok, err := a.Attribute(ctx, "href")
		if err != nil || !ok {
			continue
		}

		target := ResolveLink(baseURL, href)
		if target == "" || !strings.Contains(target, marker) || seen[target] {
			continue
		}
		seen[target] = true

		text, err := a.Text(ctx)
		if err != nil {
			text = ""
		}
		links = append(links, Link{URL: target, Text: strings.TrimSpace(text)})
	}

	return links, nil
}

// ResolveLink resolves href against base. It returns "" for an unparsable or
// empty href.
func ResolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
