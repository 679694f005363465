// Package storage writes scraped legislator records to disk as a pretty-printed
// JSON array and reads them back.
//
// The output file is replaced in a single rename, so a reader never observes a
// half-written array.
package storage
