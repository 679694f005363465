package legislator

import "strings"

// Country is the constant country value carried by every record.
const Country = "USA"

// Record is one legislator as written to the output file.
type Record struct {
	Name    string `json:"name,omitempty"`
	Title   string `json:"title"`
	Party   string `json:"party,omitempty"`
	Profile string `json:"profile,omitempty"` // leadership role
	DOB     string `json:"dob,omitempty"`     // reserved, never populated
	Type    string `json:"type,omitempty"`    // region or locality
	Country string `json:"country"`
	URL     string `json:"url"`
	// OtherInfo packs address, phone and email into one labelled string.
	OtherInfo string `json:"otherinfo,omitempty"`
}

// Fields holds the raw values extracted from a profile page.
// Empty strings mean the value was not found.
type Fields struct {
	URL     string
	Name    string
	Party   string
	Role    string
	Region  string
	Address string
	Phone   string
	Email   string
}

// New assembles a Record from extracted fields.
func New(title string, f Fields) *Record {
	return &Record{
		Name:      strings.TrimSpace(f.Name),
		Title:     strings.TrimSpace(title),
		Party:     strings.TrimSpace(f.Party),
		Profile:   strings.TrimSpace(f.Role),
		Type:      strings.TrimSpace(f.Region),
		Country:   Country,
		URL:       strings.TrimSpace(f.URL),
		OtherInfo: OtherInfo(f.Address, f.Phone, f.Email),
	}
}

// OtherInfo joins the present contact values as
// "Address: ... | Phone: ... | Email: ...", in that order.
// It returns "" when all three are blank.
func OtherInfo(address, phone, email string) string {
	labelled := []struct {
		label string
		value string
	}{
		{"Address: ", address},
		{"Phone: ", phone},
		{"Email: ", email},
	}

	parts := make([]string, 0, len(labelled))
	for _, l := range labelled {
		if v := strings.TrimSpace(l.value); v != "" {
			parts = append(parts, l.label+v)
		}
	}
	return strings.Join(parts, " | ")
}
