package dataset

import (
	"strings"
	"testing"

	"github.com/hpungsan/mailtag/internal/taxonomy"
)

func TestNew_Size(t *testing.T) {
	d := New()
	if d.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", d.Len())
	}

	counts := map[string]int{}
	for _, e := range d.All() {
		counts[e.CustomerID]++
	}
	want := map[string]int{"customer_A": 13, "customer_B": 13, "customer_C": 14}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("customer %s has %d emails, want %d", id, counts[id], n)
		}
	}
}

func TestNew_UniqueIDsAndFields(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range New().All() {
		if seen[e.ID] {
			t.Errorf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
		if strings.TrimSpace(e.Subject) == "" || strings.TrimSpace(e.Body) == "" {
			t.Errorf("email %s has blank subject or body", e.ID)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("email %s has zero timestamp", e.ID)
		}
		if !e.Tag.Valid() {
			t.Errorf("email %s has invalid tag %q", e.ID, e.Tag)
		}
	}
}

func TestValidate_ZeroLeakage(t *testing.T) {
	d := New()
	if err := d.Validate(taxonomy.NewCatalog()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCheck_ReportsViolations(t *testing.T) {
	d := FromEmails([]Email{
		{ID: "a", CustomerID: "customer_A", Tag: taxonomy.Billing},
		{ID: "b", CustomerID: "customer_A", Tag: taxonomy.AccountIssue},
		{ID: "c", CustomerID: "customer_Z", Tag: taxonomy.Billing},
	})

	violations := d.Check(taxonomy.NewCatalog())
	if len(violations) != 2 {
		t.Fatalf("len(violations) = %d, want 2: %+v", len(violations), violations)
	}
	if violations[0].EmailID != "b" || violations[0].Reason != "tag not allowed for customer" {
		t.Errorf("violations[0] = %+v", violations[0])
	}
	if violations[1].EmailID != "c" || violations[1].Reason != "unknown customer" {
		t.Errorf("violations[1] = %+v", violations[1])
	}

	err := d.Validate(taxonomy.NewCatalog())
	if err == nil || !strings.Contains(err.Error(), "2 violations") {
		t.Errorf("Validate error = %v", err)
	}
}

func TestByCustomer(t *testing.T) {
	d := New()
	emails := d.ByCustomer("customer_B")
	if len(emails) != 13 {
		t.Fatalf("len = %d, want 13", len(emails))
	}
	if emails[0].ID != "14" || emails[len(emails)-1].ID != "26" {
		t.Errorf("ByCustomer not in dataset order: first %s last %s", emails[0].ID, emails[len(emails)-1].ID)
	}
	if got := d.ByCustomer("nobody"); len(got) != 0 {
		t.Errorf("ByCustomer(nobody) = %d emails, want 0", len(got))
	}
}

func TestGet(t *testing.T) {
	d := New()
	e, ok := d.Get("21")
	if !ok {
		t.Fatal("Get(21) not found")
	}
	if e.Subject != "Mobile app crashes on launch" || e.Tag != taxonomy.BugReport {
		t.Errorf("Get(21) = %+v", e)
	}
	if _, ok := d.Get("41"); ok {
		t.Error("Get(41) found, want missing")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	d := New()
	all := d.All()
	all[0].Subject = "changed"
	if e, _ := d.Get("1"); e.Subject == "changed" {
		t.Error("dataset mutated through All()")
	}
}
