package classify

import "github.com/hpungsan/mailtag/internal/taxonomy"

// Rule fires its tag when any keyword is a substring of the normalized text.
type Rule struct {
	Tag        taxonomy.Tag `json:"tag" yaml:"tag"`
	Keywords   []string     `json:"keywords" yaml:"keywords"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Reasoning  string       `json:"reasoning" yaml:"reasoning"`
}

// DefaultRules returns the six keyword rules in cascade order.
// Keywords are lowercase; matching is against lowercased text.
func DefaultRules() []Rule {
	return []Rule{
		{
			Tag:        taxonomy.Billing,
			Keywords:   []string{"payment", "invoice", "refund", "charge"},
			Confidence: 0.92,
			Reasoning:  "Strong billing keywords detected: payment/invoice/refund patterns",
		},
		{
			Tag:        taxonomy.TechnicalSupport,
			Keywords:   []string{"api", "error", "503", "ssl", "timeout"},
			Confidence: 0.89,
			Reasoning:  "Technical error indicators: API/server/integration issues",
		},
		{
			Tag:        taxonomy.FeatureRequest,
			Keywords:   []string{"would love", "feature", "add", "export"},
			Confidence: 0.85,
			Reasoning:  "Feature request language detected: enhancement suggestions",
		},
		{
			Tag:        taxonomy.AccountIssue,
			Keywords:   []string{"password", "login", "locked", "verification"},
			Confidence: 0.91,
			Reasoning:  "Account access patterns: authentication/verification problems",
		},
		{
			Tag:        taxonomy.BugReport,
			Keywords:   []string{"crash", "not working", "broken", "bug"},
			Confidence: 0.88,
			Reasoning:  "Bug indicators: application failures and errors",
		},
		{
			Tag:        taxonomy.GeneralInquiry,
			Keywords:   []string{"how to", "question", "documentation", "where"},
			Confidence: 0.83,
			Reasoning:  "Informational request: documentation and process questions",
		},
	}
}
