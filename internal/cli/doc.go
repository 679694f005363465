// Package cli implements the command-line interface for akleg-senators.
//
// The cli package provides the Cobra root command. It resolves configuration,
// opens a browser session, runs the scraper, and writes the JSON output and the
// run summary. The browser session is always closed before the command returns.
package cli
