package taxonomy

import (
	"testing"

	"github.com/hpungsan/mailtag/internal/errors"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tag
		wantErr bool
	}{
		{name: "exact", input: "Billing", want: Billing},
		{name: "exact with space", input: "Technical Support", want: TechnicalSupport},
		{name: "lowercase", input: "bug report", want: BugReport},
		{name: "extra whitespace", input: "  general   inquiry ", want: GeneralInquiry},
		{name: "unknown", input: "Shipping", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidRequest) {
					t.Fatalf("ParseTag(%q) error = %v, want INVALID_REQUEST", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTags_StopsAtUnknown(t *testing.T) {
	_, err := ParseTags([]string{"Billing", "Nope"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("error = %v, want INVALID_REQUEST", err)
	}

	tags, err := ParseTags([]string{"billing", "Bug Report"})
	if err != nil {
		t.Fatalf("ParseTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != Billing || tags[1] != BugReport {
		t.Errorf("tags = %v", tags)
	}
}

func TestAllTags_CascadeOrder(t *testing.T) {
	want := []Tag{Billing, TechnicalSupport, FeatureRequest, AccountIssue, BugReport, GeneralInquiry}
	got := AllTags()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatalog_TagsFor(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		customer string
		want     []Tag
	}{
		{"customer_A", []Tag{Billing, TechnicalSupport, FeatureRequest}},
		{"customer_B", []Tag{AccountIssue, BugReport, GeneralInquiry}},
		{"customer_C", []Tag{Billing, BugReport, FeatureRequest, TechnicalSupport}},
	}

	for _, tt := range tests {
		t.Run(tt.customer, func(t *testing.T) {
			got, ok := c.TagsFor(tt.customer)
			if !ok {
				t.Fatalf("TagsFor(%q) not found", tt.customer)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("TagsFor(%q) = %v, want %v", tt.customer, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TagsFor(%q)[%d] = %q, want %q", tt.customer, i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, ok := c.TagsFor("customer_Z"); ok {
		t.Error("TagsFor(customer_Z) found, want missing")
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := NewCatalog()

	tags, _ := c.TagsFor("customer_A")
	tags[0] = GeneralInquiry

	again, _ := c.TagsFor("customer_A")
	if again[0] != Billing {
		t.Errorf("catalog mutated through returned slice: %v", again)
	}

	customers := c.Customers()
	customers[1].Tags[0] = Billing
	if c.Allows("customer_B", Billing) {
		t.Error("catalog mutated through Customers()")
	}
}

func TestCatalog_Customers(t *testing.T) {
	customers := NewCatalog().Customers()
	names := map[string]string{
		"customer_A": "Acme Corp",
		"customer_B": "Beta Industries",
		"customer_C": "Gamma Tech",
	}
	if len(customers) != 3 {
		t.Fatalf("len(customers) = %d, want 3", len(customers))
	}
	for _, cust := range customers {
		if names[cust.ID] != cust.Name {
			t.Errorf("customer %s name = %q, want %q", cust.ID, cust.Name, names[cust.ID])
		}
	}
	if customers[0].ID != "customer_A" || customers[2].ID != "customer_C" {
		t.Errorf("customers not in catalog order: %v", customers)
	}
}

func TestCatalog_Allows(t *testing.T) {
	c := NewCatalog()
	if !c.Allows("customer_C", BugReport) {
		t.Error("customer_C should allow Bug Report")
	}
	if c.Allows("customer_A", AccountIssue) {
		t.Error("customer_A should not allow Account Issue")
	}
	if c.Allows("nobody", Billing) {
		t.Error("unknown customer should allow nothing")
	}
}

func TestPatternBook_EveryTagHasPatterns(t *testing.T) {
	b := NewPatternBook()
	for _, tag := range AllTags() {
		if len(b.Patterns(tag)) == 0 {
			t.Errorf("tag %q has no patterns", tag)
		}
	}
	if got := len(b.Tags()); got != len(AllTags()) {
		t.Errorf("len(Tags()) = %d, want %d", got, len(AllTags()))
	}
}

func TestPatternBook_Tiers(t *testing.T) {
	b := NewPatternBook()
	for _, tag := range b.Tags() {
		for _, p := range b.Patterns(tag) {
			switch p.Confidence {
			case TierHigh, TierMedium, TierLow:
			default:
				t.Errorf("%s pattern %q has tier %q", tag, p.Description, p.Confidence)
			}
			if len(p.Keywords) == 0 {
				t.Errorf("%s pattern %q has no keywords", tag, p.Description)
			}
		}
	}
}

func TestPatternBook_AntiPatterns(t *testing.T) {
	b := NewPatternBook()
	anti := b.AntiPatterns()
	if len(anti) != 8 {
		t.Fatalf("len(AntiPatterns()) = %d, want 8", len(anti))
	}
	for _, ap := range anti {
		if !ap.WrongTag.Valid() {
			t.Errorf("anti-pattern %q has invalid tag %q", ap.Phrase, ap.WrongTag)
		}
	}

	anti[0].Phrase = "changed"
	if b.AntiPatterns()[0].Phrase != "billing address" {
		t.Error("anti-pattern table mutated through returned slice")
	}
}
