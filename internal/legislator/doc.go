// Package legislator defines the record written for each scraped legislator.
//
// A Record is assembled once per profile page from the raw values the extractor
// found, then never modified. Optional fields are either a trimmed non-empty
// string or absent from the JSON output entirely.
package legislator
