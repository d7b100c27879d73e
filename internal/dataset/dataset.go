// Package dataset holds the labeled sample emails used for demo input and
// for the metrics dashboard.
package dataset

import (
	"fmt"
	"time"

	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// Email is a labeled sample email. Records are never mutated after load.
type Email struct {
	ID         string       `json:"id" yaml:"id"`
	Subject    string       `json:"subject" yaml:"subject"`
	Body       string       `json:"body" yaml:"body"`
	CustomerID string       `json:"customer_id" yaml:"customer_id"`
	Tag        taxonomy.Tag `json:"tag" yaml:"tag"`
	Timestamp  time.Time    `json:"timestamp" yaml:"timestamp"`
}

// Dataset is the read-only collection of sample emails.
type Dataset struct {
	emails []Email
	byID   map[string]int
}

// New returns the built-in 40-email dataset.
func New() *Dataset {
	return FromEmails(sampleEmails())
}

// FromEmails builds a Dataset over the given records (copied).
func FromEmails(emails []Email) *Dataset {
	d := &Dataset{
		emails: append([]Email(nil), emails...),
		byID:   make(map[string]int, len(emails)),
	}
	for i, e := range d.emails {
		d.byID[e.ID] = i
	}
	return d
}

// Len returns the number of emails.
func (d *Dataset) Len() int {
	return len(d.emails)
}

// All returns a copy of every email in dataset order.
func (d *Dataset) All() []Email {
	return append([]Email(nil), d.emails...)
}

// ByCustomer returns the emails attributed to customerID, in dataset order.
func (d *Dataset) ByCustomer(customerID string) []Email {
	var out []Email
	for _, e := range d.emails {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out
}

// Get looks up an email by identifier.
func (d *Dataset) Get(id string) (Email, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Email{}, false
	}
	return d.emails[i], true
}

// Violation describes an email whose label breaks customer isolation.
type Violation struct {
	EmailID    string       `json:"email_id"`
	CustomerID string       `json:"customer_id"`
	Tag        taxonomy.Tag `json:"tag"`
	Reason     string       `json:"reason"`
}

// Check returns every email that is attributed to an unknown customer or
// labeled with a tag its customer may not receive.
func (d *Dataset) Check(catalog *taxonomy.Catalog) []Violation {
	var out []Violation
	for _, e := range d.emails {
		if _, ok := catalog.Customer(e.CustomerID); !ok {
			out = append(out, Violation{EmailID: e.ID, CustomerID: e.CustomerID, Tag: e.Tag, Reason: "unknown customer"})
			continue
		}
		if !catalog.Allows(e.CustomerID, e.Tag) {
			out = append(out, Violation{EmailID: e.ID, CustomerID: e.CustomerID, Tag: e.Tag, Reason: "tag not allowed for customer"})
		}
	}
	return out
}

// Validate returns an error describing the first isolation violation, if any.
func (d *Dataset) Validate(catalog *taxonomy.Catalog) error {
	violations := d.Check(catalog)
	if len(violations) == 0 {
		return nil
	}
	v := violations[0]
	return fmt.Errorf("dataset: email %s (%s): %s: %q (%d violations)", v.EmailID, v.CustomerID, v.Reason, v.Tag, len(violations))
}
