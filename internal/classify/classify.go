// Package classify implements the keyword rule cascade that assigns a
// single tag to an email, restricted to the tags its customer may receive.
package classify

import (
	"fmt"
	"strings"

	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

const (
	// ConfidenceThreshold separates verified predictions from ones that need review.
	// Confidence strictly above the threshold counts as verified.
	ConfidenceThreshold = 0.7

	// FallbackConfidence is reported when no rule fires.
	FallbackConfidence = 0.5
)

// Mode selects how competing rule matches are resolved.
type Mode string

const (
	// ModeCascade evaluates every rule in order and lets each match overwrite
	// the previous one, so the last matching rule wins.
	ModeCascade Mode = "cascade"

	// ModeHighest keeps the matching rule with the highest confidence.
	// Ties go to the earlier rule.
	ModeHighest Mode = "highest"
)

// ParseMode parses a scoring mode name. Empty means ModeCascade.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCascade:
		return ModeCascade, nil
	case ModeHighest:
		return ModeHighest, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("scoring mode must be one of: %s, %s", ModeCascade, ModeHighest))
}

// Result is the outcome of a single classification.
type Result struct {
	Tag        taxonomy.Tag `json:"tag" yaml:"tag"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Reasoning  string       `json:"reasoning" yaml:"reasoning"`
	Matched    []string     `json:"matched_keywords,omitempty" yaml:"matched_keywords,omitempty"`
}

// NeedsReview reports whether the confidence is at or below ConfidenceThreshold.
func (r Result) NeedsReview() bool {
	return r.Confidence <= ConfidenceThreshold
}

// Classifier applies an ordered rule list. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	rules []Rule
	mode  Mode
}

// New creates a Classifier over rules, evaluated in the given order.
func New(rules []Rule, mode Mode) *Classifier {
	if mode == "" {
		mode = ModeCascade
	}
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		cp[i] = r
		cp[i].Keywords = append([]string(nil), r.Keywords...)
	}
	return &Classifier{rules: cp, mode: mode}
}

// NewDefault creates a Classifier over DefaultRules.
func NewDefault(mode Mode) *Classifier {
	return New(DefaultRules(), mode)
}

// Mode returns the scoring mode.
func (c *Classifier) Mode() Mode {
	return c.mode
}

// WithMode returns a Classifier over the same rules with a different mode.
func (c *Classifier) WithMode(mode Mode) *Classifier {
	if mode == "" {
		mode = ModeCascade
	}
	return &Classifier{rules: c.rules, mode: mode}
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r
		out[i].Keywords = append([]string(nil), r.Keywords...)
	}
	return out
}

// Classify picks one tag from allowed for the given subject and body.
//
// Rules whose tag is not in allowed are skipped, so a tag outside allowed is
// never returned. When nothing fires the first allowed tag is returned with
// FallbackConfidence and no reasoning. Callers reject blank subject or body
// before calling; Classify itself only rejects an empty or unknown tag list.
func (c *Classifier) Classify(subject, body string, allowed []taxonomy.Tag) (Result, error) {
	if len(allowed) == 0 {
		return Result{}, errors.NewInvalidRequest("allowed tags must not be empty")
	}
	for _, tag := range allowed {
		if !tag.Valid() {
			return Result{}, errors.NewUnknownTag(string(tag))
		}
	}

	text := NormalizeText(subject, body)

	result := Result{Tag: allowed[0], Confidence: FallbackConfidence}
	matched := false
	for _, rule := range c.rules {
		if !taxonomy.Contains(allowed, rule.Tag) {
			continue
		}
		hits := matchKeywords(text, rule.Keywords)
		if len(hits) == 0 {
			continue
		}
		if c.mode == ModeHighest && matched && rule.Confidence <= result.Confidence {
			continue
		}
		result = Result{
			Tag:        rule.Tag,
			Confidence: rule.Confidence,
			Reasoning:  rule.Reasoning,
			Matched:    hits,
		}
		matched = true
	}

	return result, nil
}

// matchKeywords returns the keywords that occur in text, in keyword order.
func matchKeywords(text string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
