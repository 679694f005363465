// Package extract holds the field heuristics applied to a legislator profile page.
//
// Every function here is pure: it takes page markup or visible text and returns the
// matched value, or "" when nothing matched. Callers chain them in priority order and
// keep the first non-blank result.
package extract
