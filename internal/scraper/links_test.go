package scraper

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/akleg-senators/internal/browser"
)

type fakeAnchor struct {
	href    string
	noHref  bool
	attrErr error
	text    string
}

func (a fakeAnchor) Text(context.Context) (string, error) { return a.text, nil }

func (a fakeAnchor) Attribute(_ context.Context, name string) (string, bool, error) {
	if a.attrErr != nil {
		return "", false, a.attrErr
	}
	if name != "href" || a.noHref {
		return "", false, nil
	}
	return a.href, true, nil
}

// anchorPage serves a fixed set of anchors for any selector.
type anchorPage struct {
	browser.Static
	anchors []fakeAnchor
	findErr error
}

func (p *anchorPage) FindAll(context.Context, string) ([]browser.Element, error) {
	if p.findErr != nil {
		return nil, p.findErr
	}
	elems := make([]browser.Element, len(p.anchors))
	for i, a := range p.anchors {
		elems[i] = a
	}
	return elems, nil
}

const base = "https://akleg.gov/senate.php"

func TestDiscoverLinks(t *testing.T) {
	tests := []struct {
		name    string
		anchors []fakeAnchor
		want    []Link
	}{
		{
			name: "dedup preserves first-seen order",
			anchors: []fakeAnchor{
				{href: "legislator.php?id=A", text: "A"},
				{href: "legislator.php?id=B", text: "B"},
				{href: "legislator.php?id=A", text: "A again"},
				{href: "legislator.php?id=C", text: " C "},
			},
			want: []Link{
				{URL: "https://akleg.gov/legislator.php?id=A", Text: "A"},
				{URL: "https://akleg.gov/legislator.php?id=B", Text: "B"},
				{URL: "https://akleg.gov/legislator.php?id=C", Text: "C"},
			},
		},
		{
			name: "relative and absolute forms of one URL collapse",
			anchors: []fakeAnchor{
				{href: "/legislator.php?id=A", text: "first"},
				{href: "https://akleg.gov/legislator.php?id=A", text: "second"},
			},
			want: []Link{{URL: "https://akleg.gov/legislator.php?id=A", Text: "first"}},
		},
		{
			name: "non-matching and unreadable anchors skipped",
			anchors: []fakeAnchor{
				{href: "/house.php"},
				{noHref: true},
				{attrErr: errors.New("stale element")},
				{href: "   "},
				{href: "%zz"},
				{href: "legislator.php?id=Z", text: "Z"},
			},
			want: []Link{{URL: "https://akleg.gov/legislator.php?id=Z", Text: "Z"}},
		},
		{
			name:    "no anchors",
			anchors: nil,
			want:    []Link{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &anchorPage{anchors: tt.anchors}
			got, err := DiscoverLinks(context.Background(), page, base, "legislator.php?id=")
			if err != nil {
				t.Fatalf("DiscoverLinks() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DiscoverLinks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverLinks_Errors(t *testing.T) {
	page := &anchorPage{findErr: errors.New("target closed")}
	if _, err := DiscoverLinks(context.Background(), page, base, "legislator.php?id="); err == nil {
		t.Error("DiscoverLinks() with failing FindAll returned nil error")
	}

	if _, err := DiscoverLinks(context.Background(), &anchorPage{}, "://bad", "x"); err == nil {
		t.Error("DiscoverLinks() with bad base URL returned nil error")
	}
}

func TestResolveLink(t *testing.T) {
	b, _ := url.Parse("https://akleg.gov/senate.php")

	tests := []struct {
		href string
		want string
	}{
		{"legislator.php?id=1", "https://akleg.gov/legislator.php?id=1"},
		{"/legislator.php?id=2", "https://akleg.gov/legislator.php?id=2"},
		{"https://other.gov/x", "https://other.gov/x"},
		{"", ""},
		{"%zz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			if got := ResolveLink(b, tt.href); got != tt.want {
				t.Errorf("ResolveLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
