package legislator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOtherInfo(t *testing.T) {
	tests := []struct {
		name                  string
		address, phone, email string
		want                  string
	}{
		{"none", "", "", "", ""},
		{"blank values", "  ", "\t", "\n", ""},
		{"only email", "", "", "x@y.gov", "Email: x@y.gov"},
		{"only phone", "", "907-465-3743", "", "Phone: 907-465-3743"},
		{
			"all three",
			"State Capitol Room 427, Juneau AK, 99801", "907-465-3743", "Senator.Doe@akleg.gov",
			"Address: State Capitol Room 427, Juneau AK, 99801 | Phone: 907-465-3743 | Email: Senator.Doe@akleg.gov",
		},
		{"address and email", "Capitol Room 9", "", "a@b.gov", "Address: Capitol Room 9 | Email: a@b.gov"},
		{"trimmed", " Capitol Room 9 ", " 907 465 1111 ", "", "Address: Capitol Room 9 | Phone: 907 465 1111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OtherInfo(tt.address, tt.phone, tt.email)
			if got != tt.want {
				t.Errorf("OtherInfo() = %q, want %q", got, tt.want)
			}
			if strings.HasPrefix(got, " |") || strings.HasSuffix(got, "| ") {
				t.Errorf("OtherInfo() = %q has a dangling separator", got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	got := New("Senator", Fields{
		URL:    " https://akleg.gov/legislator.php?id=doe ",
		Name:   "Jane Doe",
		Party:  "Republican",
		Role:   "",
		Region: "Anchorage",
		Email:  "jane@akleg.gov",
	})

	want := &Record{
		Name:      "Jane Doe",
		Title:     "Senator",
		Party:     "Republican",
		Type:      "Anchorage",
		Country:   "USA",
		URL:       "https://akleg.gov/legislator.php?id=doe",
		OtherInfo: "Email: jane@akleg.gov",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("New() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_JSONOmitsAbsentFields(t *testing.T) {
	rec := New("Senator", Fields{URL: "https://akleg.gov/legislator.php?id=x", Name: "   "})

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"name", "party", "profile", "dob", "type", "otherinfo"} {
		if _, ok := obj[key]; ok {
			t.Errorf("key %q present in %s, want omitted", key, data)
		}
	}
	for _, key := range []string{"title", "country", "url"} {
		if v, ok := obj[key].(string); !ok || v == "" {
			t.Errorf("key %q = %v, want non-empty string", key, obj[key])
		}
	}
}

func TestRecord_JSONKeyOrder(t *testing.T) {
	rec := New("Senator", Fields{
		URL: "u", Name: "n", Party: "p", Role: "r", Region: "t", Phone: "1",
	})

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"name":"n","title":"Senator","party":"p","profile":"r","type":"t","country":"USA","url":"u","otherinfo":"Phone: 1"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
