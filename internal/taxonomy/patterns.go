package taxonomy

// Tier is the qualitative confidence of a documented pattern.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Pattern documents a keyword group that signals a tag.
// Patterns are descriptive; the classifier does not consult them.
type Pattern struct {
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Description string   `json:"description" yaml:"description"`
	Confidence  Tier     `json:"confidence" yaml:"confidence"`
}

// AntiPattern documents a phrase that suggests the wrong tag when matched naively.
type AntiPattern struct {
	Phrase         string `json:"misleading_phrase" yaml:"misleading_phrase"`
	WrongTag       Tag    `json:"wrong_tag" yaml:"wrong_tag"`
	CorrectContext string `json:"correct_context" yaml:"correct_context"`
	Explanation    string `json:"explanation" yaml:"explanation"`
}

// PatternBook holds the read-only pattern and anti-pattern tables.
type PatternBook struct {
	patterns     map[Tag][]Pattern
	antiPatterns []AntiPattern
}

// NewPatternBook returns the documented pattern tables.
func NewPatternBook() *PatternBook {
	return &PatternBook{
		patterns: map[Tag][]Pattern{
			Billing: {
				{Keywords: []string{"payment", "failed", "charge", "declined"}, Description: "Payment processing issues", Confidence: TierHigh},
				{Keywords: []string{"refund", "double", "charged"}, Description: "Refund requests", Confidence: TierHigh},
				{Keywords: []string{"invoice", "bill", "subscription"}, Description: "Billing documents and subscription", Confidence: TierMedium},
				{Keywords: []string{"upgrade", "downgrade", "plan"}, Description: "Plan changes", Confidence: TierMedium},
			},
			TechnicalSupport: {
				{Keywords: []string{"api", "error", "503", "500", "timeout"}, Description: "API errors and server issues", Confidence: TierHigh},
				{Keywords: []string{"ssl", "certificate", "https"}, Description: "Security and certificate issues", Confidence: TierHigh},
				{Keywords: []string{"webhook", "endpoint", "integration"}, Description: "Integration and webhook issues", Confidence: TierHigh},
				{Keywords: []string{"cors", "connection", "rate limit"}, Description: "Connection and access issues", Confidence: TierHigh},
			},
			FeatureRequest: {
				{Keywords: []string{"would love", "add", "feature"}, Description: "Direct feature requests", Confidence: TierHigh},
				{Keywords: []string{"export", "import", "bulk"}, Description: "Data management features", Confidence: TierMedium},
				{Keywords: []string{"dark mode", "theme", "ui"}, Description: "Interface improvements", Confidence: TierMedium},
				{Keywords: []string{"integration", "salesforce", "connect"}, Description: "Third-party integrations", Confidence: TierMedium},
			},
			AccountIssue: {
				{Keywords: []string{"password", "reset", "login"}, Description: "Authentication problems", Confidence: TierHigh},
				{Keywords: []string{"locked", "blocked", "access"}, Description: "Account access issues", Confidence: TierHigh},
				{Keywords: []string{"verification", "email", "expired"}, Description: "Account verification", Confidence: TierHigh},
				{Keywords: []string{"2fa", "two-factor", "authenticator"}, Description: "Two-factor authentication", Confidence: TierHigh},
			},
			BugReport: {
				{Keywords: []string{"crash", "error", "not working"}, Description: "Application failures", Confidence: TierHigh},
				{Keywords: []string{"button", "doesn't", "clicking"}, Description: "UI element failures", Confidence: TierHigh},
				{Keywords: []string{"wrong", "incorrect", "showing"}, Description: "Data display issues", Confidence: TierMedium},
				{Keywords: []string{"broken", "fails", "silently"}, Description: "Silent failures", Confidence: TierHigh},
			},
			GeneralInquiry: {
				{Keywords: []string{"how to", "where", "documentation"}, Description: "Documentation questions", Confidence: TierHigh},
				{Keywords: []string{"question", "wondering", "curious"}, Description: "General questions", Confidence: TierMedium},
				{Keywords: []string{"training", "tutorial", "learn"}, Description: "Learning resources", Confidence: TierMedium},
				{Keywords: []string{"status", "uptime", "maintenance"}, Description: "Service status inquiries", Confidence: TierHigh},
			},
		},
		antiPatterns: []AntiPattern{
			{
				Phrase:         "billing address",
				WrongTag:       Billing,
				CorrectContext: "shipping or account setup context",
				Explanation:    "Presence of 'billing' word doesn't always mean billing issue - could be form field reference",
			},
			{
				Phrase:         "technical term",
				WrongTag:       TechnicalSupport,
				CorrectContext: "casual mention in non-technical context",
				Explanation:    "Technical jargon mentioned casually doesn't indicate technical issue - check if actually reporting problem",
			},
			{
				Phrase:         "support",
				WrongTag:       TechnicalSupport,
				CorrectContext: "customer support or general help",
				Explanation:    "'Support' alone is too ambiguous - need context about what type of support needed",
			},
			{
				Phrase:         "upgrade",
				WrongTag:       FeatureRequest,
				CorrectContext: "pricing or billing discussion",
				Explanation:    "Upgrade in billing context means plan change, not new feature request",
			},
			{
				Phrase:         "bug",
				WrongTag:       BugReport,
				CorrectContext: "hypothetical or past tense discussion",
				Explanation:    "Mentioning bugs in general doesn't mean reporting a bug - check if active issue",
			},
			{
				Phrase:         "feature",
				WrongTag:       FeatureRequest,
				CorrectContext: "asking how existing feature works",
				Explanation:    "Asking about existing feature usage is inquiry, not feature request",
			},
			{
				Phrase:         "account number",
				WrongTag:       AccountIssue,
				CorrectContext: "providing reference information",
				Explanation:    "Simply providing account number for reference doesn't indicate account problem",
			},
			{
				Phrase:         "error message",
				WrongTag:       BugReport,
				CorrectContext: "asking about error meaning in docs",
				Explanation:    "Asking about error documentation vs. actively experiencing error",
			},
		},
	}
}

// Tags returns the tags that have documented patterns, in cascade order.
func (b *PatternBook) Tags() []Tag {
	tags := make([]Tag, 0, len(b.patterns))
	for _, tag := range AllTags() {
		if len(b.patterns[tag]) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Patterns returns a copy of the patterns documented for tag.
func (b *PatternBook) Patterns(tag Tag) []Pattern {
	src := b.patterns[tag]
	out := make([]Pattern, len(src))
	for i, p := range src {
		out[i] = p
		out[i].Keywords = append([]string(nil), p.Keywords...)
	}
	return out
}

// AntiPatterns returns a copy of the anti-pattern table.
func (b *PatternBook) AntiPatterns() []AntiPattern {
	return append([]AntiPattern(nil), b.antiPatterns...)
}
