package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/mailtag/internal/classify"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// ClassifyInput contains parameters for the Classify operation.
type ClassifyInput struct {
	CustomerID string   // required unless Tags is set
	Subject    string   // required
	Body       string   // required
	Tags       []string // optional: narrows the allowed tags (must be a subset of the customer's)
	Mode       string   // optional: overrides the configured scoring mode
}

// ClassifyOutput contains the result of the Classify operation.
type ClassifyOutput struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id,omitempty"`
	Tag          taxonomy.Tag   `json:"tag"`
	Confidence   float64        `json:"confidence"`
	Reasoning    string         `json:"reasoning"`
	Matched      []string       `json:"matched_keywords,omitempty"`
	NeedsReview  bool           `json:"needs_review"`
	AllowedTags  []taxonomy.Tag `json:"allowed_tags"`
	Mode         classify.Mode  `json:"mode"`
	ClassifiedAt time.Time      `json:"classified_at"`
}

// Result returns the core classification result.
func (o *ClassifyOutput) Result() classify.Result {
	return classify.Result{
		Tag:        o.Tag,
		Confidence: o.Confidence,
		Reasoning:  o.Reasoning,
		Matched:    o.Matched,
	}
}

// Classify assigns one tag to an email from the tags its customer may receive.
// The configured delay is applied before the result is returned; canceling
// ctx during the wait returns a CANCELED error.
func Classify(ctx context.Context, env *Env, input ClassifyInput) (*ClassifyOutput, error) {
	// Blank checks only; the classifier sees the text as given.
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, errors.NewInvalidRequest("subject and body are required")
	}

	allowed, customerID, err := resolveAllowed(env, input.CustomerID, input.Tags)
	if err != nil {
		return nil, err
	}

	classifier := env.Classifier
	if strings.TrimSpace(input.Mode) != "" {
		mode, err := classify.ParseMode(input.Mode)
		if err != nil {
			return nil, err
		}
		classifier = classifier.WithMode(mode)
	}

	if err := wait(ctx, env.Cfg.ClassifyDelay()); err != nil {
		return nil, err
	}

	res, err := classifier.Classify(input.Subject, input.Body, allowed)
	if err != nil {
		return nil, err
	}

	out := &ClassifyOutput{
		ID:           env.newID(),
		CustomerID:   customerID,
		Tag:          res.Tag,
		Confidence:   res.Confidence,
		Reasoning:    res.Reasoning,
		Matched:      res.Matched,
		NeedsReview:  res.NeedsReview(),
		AllowedTags:  allowed,
		Mode:         classifier.Mode(),
		ClassifiedAt: env.now().UTC(),
	}

	env.Log.Debug("classified",
		"id", out.ID,
		"customer_id", customerID,
		"tag", out.Tag,
		"confidence", out.Confidence,
		"mode", out.Mode,
	)
	return out, nil
}

// resolveAllowed determines the allowed tag list from a customer, an explicit
// tag list, or both. An explicit list may only narrow the customer's tags.
func resolveAllowed(env *Env, customerID string, tagNames []string) ([]taxonomy.Tag, string, error) {
	customerID = strings.TrimSpace(customerID)

	var override []taxonomy.Tag
	if len(tagNames) > 0 {
		tags, err := taxonomy.ParseTags(tagNames)
		if err != nil {
			return nil, "", err
		}
		override = dedupeTags(tags)
	}

	if customerID == "" {
		if len(override) == 0 {
			return nil, "", errors.NewInvalidRequest("customer_id or tags is required")
		}
		return override, "", nil
	}

	customerTags, ok := env.Catalog.TagsFor(customerID)
	if !ok {
		return nil, "", errors.NewCustomerNotFound(customerID)
	}
	if len(override) == 0 {
		return customerTags, customerID, nil
	}
	for _, t := range override {
		if !taxonomy.Contains(customerTags, t) {
			return nil, "", errors.NewInvalidRequest(
				fmt.Sprintf("tag %q is not allowed for customer %s", t, customerID))
		}
	}
	return override, customerID, nil
}

func dedupeTags(tags []taxonomy.Tag) []taxonomy.Tag {
	out := make([]taxonomy.Tag, 0, len(tags))
	for _, t := range tags {
		if !taxonomy.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCanceled(err)
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.NewCanceled(ctx.Err())
	case <-timer.C:
		return nil
	}
}
