package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Script expressions evaluated against the loaded page.
const (
	ReadyStateScript  = `document.readyState`
	VisibleTextScript = `document.body.innerText || document.body.textContent || ''`
)

const (
	// DefaultReadyTimeout bounds every readiness wait.
	DefaultReadyTimeout = 15 * time.Second
	pollInterval        = 100 * time.Millisecond
)

var (
	// ErrNotReady is returned when a page does not reach readyState "complete" in time.
	ErrNotReady = errors.New("page not ready")
	// ErrNoPage is returned when an operation needs a loaded page and none is loaded.
	ErrNoPage = errors.New("no page loaded")
	// ErrUnsupportedScript is returned by engines that cannot evaluate an expression.
	ErrUnsupportedScript = errors.New("script evaluation not supported")
)

// Browser is a single browser session showing one page at a time.
type Browser interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error
	// Location returns the address of the current page after any redirects.
	Location(ctx context.Context) (string, error)
	// FindAll returns the elements matching a CSS selector, in document order.
	// No match is not an error.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Evaluate runs a script expression and stores its result in res.
	Evaluate(ctx context.Context, expr string, res any) error
	// Source returns the current page markup.
	Source(ctx context.Context) (string, error)
	// Back returns to the previous page in history.
	Back(ctx context.Context) error
	// Close ends the session. It is safe to call more than once.
	Close() error
}

// Element is a node found on the current page.
type Element interface {
	Text(ctx context.Context) (string, error)
	// Attribute reports the raw attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
}

// WaitReady blocks until the loaded page reports document.readyState "complete".
// Evaluation errors count as not ready yet. When timeout elapses first the returned
// error wraps ErrNotReady.
func WaitReady(ctx context.Context, b Browser, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var state string
		if err := b.Evaluate(waitCtx, ReadyStateScript, &state); err == nil && state == "complete" {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w after %s", ErrNotReady, timeout)
		case <-ticker.C:
		}
	}
}
