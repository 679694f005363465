package scraper

import (
	"context"
	"strings"

	"github.com/pfrederiksen/akleg-senators/internal/browser"
	"github.com/pfrederiksen/akleg-senators/internal/extract"
	"github.com/pfrederiksen/akleg-senators/internal/legislator"
	"github.com/pfrederiksen/akleg-senators/internal/logger"
)

// extractFields reads every field from the loaded profile page. It never fails:
// anything it cannot find is left blank.
func (s *Scraper) extractFields(ctx context.Context, link Link) legislator.Fields {
	f := legislator.Fields{URL: link.URL}

	f.Name = extract.CleanName(link.Text, s.opts.Title)
	if f.Name == "" {
		f.Name = extract.CleanName(s.headingName(ctx), s.opts.Title)
	}

	source := s.source(ctx, link.URL)

	party := extract.Party(source)
	if party == "" {
		party = s.partyLabel(ctx)
	}
	f.Party = extract.NormalizeParty(party)
	f.Role = extract.Role(source)

	text := s.visibleText(ctx, link.URL, source)
	f.Address = extract.Address(text)
	f.Phone = extract.Phone(text)
	f.Email = s.mailto(ctx)
	if f.Email == "" {
		f.Email = extract.Email(text)
	}
	f.Region = extract.Region(text)

	return f
}

// headingName returns the first h1 on the page. Pages without one put the
// name in the h2 right before the h2 that mentions the title.
func (s *Scraper) headingName(ctx context.Context) string {
	if name := extract.FirstNonBlank(s.texts(ctx, "h1")...); name != "" {
		return name
	}

	h2s := s.texts(ctx, "h2")
	for i := 1; i < len(h2s); i++ {
		if !strings.Contains(h2s[i], s.opts.Title) {
			continue
		}
		if name := strings.TrimSpace(h2s[i-1]); name != "" {
			return name
		}
	}
	return ""
}

// texts returns the text of every element matching selector. Unreadable
// elements yield "".
func (s *Scraper) texts(ctx context.Context, selector string) []string {
	elems, err := s.browser.FindAll(ctx, selector)
	if err != nil {
		return nil
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		if text, err := e.Text(ctx); err == nil {
			out[i] = text
		}
	}
	return out
}

// partyLabel returns the innermost element whose text mentions "party", i.e.
// the shortest such text.
func (s *Scraper) partyLabel(ctx context.Context) string {
	best := ""
	for _, text := range s.texts(ctx, "body *") {
		text = strings.TrimSpace(text)
		if text == "" || !strings.Contains(strings.ToLower(text), "party") {
			continue
		}
		if best == "" || len(text) < len(best) {
			best = text
		}
	}
	return best
}

// mailto returns the address of the first mailto: link on the page.
func (s *Scraper) mailto(ctx context.Context) string {
	anchors, err := s.browser.FindAll(ctx, "a[href]")
	if err != nil {
		return ""
	}
	for _, a := range anchors {
		href, ok, err := a.Attribute(ctx, "href")
		if err != nil || !ok {
			continue
		}
		if addr := extract.MailtoAddress(href); addr != "" {
			return addr
		}
	}
	return ""
}

func (s *Scraper) source(ctx context.Context, pageURL string) string {
	src, err := s.browser.Source(ctx)
	if err != nil {
		logger.Warn("page source unavailable", logger.Fields{"url": pageURL}, err)
		return ""
	}
	return src
}

// visibleText prefers the rendered text and falls back to markup when the
// script cannot be evaluated.
func (s *Scraper) visibleText(ctx context.Context, pageURL, markup string) string {
	var text string
	if err := s.browser.Evaluate(ctx, browser.VisibleTextScript, &text); err != nil {
		logger.Warn("visible text unavailable, scanning markup", logger.Fields{"url": pageURL}, err)
		return markup
	}
	return text
}
