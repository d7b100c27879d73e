package taxonomy

import (
	"strings"

	"github.com/hpungsan/mailtag/internal/errors"
)

// Tag is a category assigned to an email. The set of tags is closed.
type Tag string

const (
	Billing          Tag = "Billing"
	TechnicalSupport Tag = "Technical Support"
	FeatureRequest   Tag = "Feature Request"
	AccountIssue     Tag = "Account Issue"
	BugReport        Tag = "Bug Report"
	GeneralInquiry   Tag = "General Inquiry"
)

// AllTags returns every tag in cascade order.
func AllTags() []Tag {
	return []Tag{Billing, TechnicalSupport, FeatureRequest, AccountIssue, BugReport, GeneralInquiry}
}

// Valid reports whether t belongs to the closed tag set.
func (t Tag) Valid() bool {
	for _, known := range AllTags() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTag resolves a tag name. Exact match first, then case-insensitive
// with collapsed whitespace ("bug  report" → Bug Report).
func ParseTag(s string) (Tag, error) {
	if Tag(s).Valid() {
		return Tag(s), nil
	}
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	for _, known := range AllTags() {
		if strings.ToLower(string(known)) == norm {
			return known, nil
		}
	}
	return "", errors.NewUnknownTag(s)
}

// ParseTags resolves a list of tag names, failing on the first unknown one.
func ParseTags(names []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		tag, err := ParseTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Contains reports whether tag is in tags.
func Contains(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
