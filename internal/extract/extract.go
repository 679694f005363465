package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	partyPattern = regexp.MustCompile(`(?i)(Republican|Democrat(?:ic)?|Independent)`)
	rolePattern  = regexp.MustCompile(`(?i)(Majority|Minority)\s+(Leader|Whip)|President Pro Tempore|President of the Senate`)

	capitolPattern = regexp.MustCompile(`(?is)(Capitol.*?Room.*?\d+|State Capitol.*?\d{5}(-\d{4})?)`)
	juneauPattern  = regexp.MustCompile(`(?is)(Juneau,? AK .*?\d{5}(-\d{4})?)`)

	phonePattern = regexp.MustCompile(`(\+?1[ .-]?)?\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4}`)
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

	regionPattern = regexp.MustCompile(`(?i)(Anchorage|Fairbanks|Juneau|Mat[- ]?Su|Kenai|Wasilla|Palmer|Ketchikan|Sitka|Eagle River)`)

	multiSpace    = regexp.MustCompile(`\s{2,}`)
	lineBreak     = regexp.MustCompile(`\s*\n\s*`)
	anyWhitespace = regexp.MustCompile(`\s+`)
)

// find returns the first match of re in s, trimmed.
func find(re *regexp.Regexp, s string) string {
	return strings.TrimSpace(re.FindString(s))
}

// FirstNonBlank returns the first value that is not blank after trimming.
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// CleanName trims s and strips a single leading title prefix such as "Senator ".
// The prefix match ignores case and must be followed by whitespace.
func CleanName(s, prefix string) string {
	s = strings.TrimSpace(s)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || len(s) <= len(prefix) {
		return s
	}

	head := s[:len(prefix)]
	rest := s[len(prefix):]
	if !strings.EqualFold(head, prefix) {
		return s
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(r) {
		return s
	}
	return strings.TrimSpace(rest)
}

// TitleCase lower-cases s, then upper-cases the first letter of every
// whitespace-separated word. Runs of whitespace collapse to one space.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Party returns the first party keyword found in markup.
func Party(markup string) string {
	return find(partyPattern, markup)
}

// NormalizeParty maps a party string to "Republican", "Democrat" or
// "Independent" by prefix; anything else is title-cased.
func NormalizeParty(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return ""
	case strings.HasPrefix(t, "rep"):
		return "Republican"
	case strings.HasPrefix(t, "dem"):
		return "Democrat"
	case strings.HasPrefix(t, "ind"):
		return "Independent"
	default:
		return TitleCase(s)
	}
}

// Role returns the title-cased leadership role mentioned in markup, if any.
func Role(markup string) string {
	return TitleCase(find(rolePattern, markup))
}

// Address returns the Capitol office address found in text, falling back to a
// "Juneau, AK <zip>" block. Line breaks inside the block become ", ".
func Address(text string) string {
	block := find(capitolPattern, text)
	if block == "" {
		block = find(juneauPattern, text)
	}
	if block == "" {
		return ""
	}
	block = multiSpace.ReplaceAllString(block, " ")
	block = lineBreak.ReplaceAllString(block, ", ")
	return strings.TrimSpace(block)
}

// Phone returns the first North American phone number in text.
func Phone(text string) string {
	return NormalizePhone(phonePattern.FindString(text))
}

// NormalizePhone collapses whitespace runs in a matched phone number.
func NormalizePhone(s string) string {
	return strings.TrimSpace(anyWhitespace.ReplaceAllString(s, " "))
}

// Email returns the first email address in text.
func Email(text string) string {
	return find(emailPattern, text)
}

// MailtoAddress strips a case-insensitive "mailto:" scheme from href.
// It returns "" for any other link.
func MailtoAddress(href string) string {
	const scheme = "mailto:"
	href = strings.TrimSpace(href)
	if len(href) < len(scheme) || !strings.EqualFold(href[:len(scheme)], scheme) {
		return ""
	}
	return strings.TrimSpace(href[len(scheme):])
}

// Region returns the title-cased Alaska city or region named in text.
func Region(text string) string {
	return TitleCase(find(regionPattern, text))
}
