// Package scraper walks a legislature's senate listing and turns every linked
// profile page into a legislator.Record.
//
// All profile URLs are collected from the listing before any profile is visited,
// so extraction never depends on listing-page elements surviving a navigation.
// Each field is then taken from the first heuristic in its priority list that
// yields a non-blank value; see package extract for the heuristics themselves.
package scraper
