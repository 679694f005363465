// Package browser defines the page-automation boundary the scraper depends on and
// provides two engines behind it.
//
// Chrome drives a real headless Chrome through chromedp. Static fetches pages over
// HTTP and answers the same calls from a parsed DOM without running JavaScript; it
// is enough for server-rendered sites and serves as the stub engine in tests.
package browser
