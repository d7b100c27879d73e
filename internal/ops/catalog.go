package ops

import (
	"strings"

	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// CustomersOutput contains the result of the Customers operation.
type CustomersOutput struct {
	Items []taxonomy.Customer `json:"items"`
}

// Customers lists the catalog in order.
func Customers(env *Env) *CustomersOutput {
	return &CustomersOutput{Items: env.Catalog.Customers()}
}

// TagsFor returns the tags a customer's emails may receive.
func TagsFor(env *Env, customerID string) (*taxonomy.Customer, error) {
	cust, err := env.resolveCustomer(customerID)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

// TagPatterns groups the reference patterns of one tag.
type TagPatterns struct {
	Tag      taxonomy.Tag       `json:"tag"`
	Patterns []taxonomy.Pattern `json:"patterns"`
}

// PatternsOutput contains the result of the Patterns operation.
type PatternsOutput struct {
	Items []TagPatterns `json:"items"`
}

// Patterns returns the reference patterns for one tag, or for every tag in
// cascade order when tag is empty.
func Patterns(env *Env, tag string) (*PatternsOutput, error) {
	tags := env.Patterns.Tags()
	if strings.TrimSpace(tag) != "" {
		t, err := taxonomy.ParseTag(tag)
		if err != nil {
			return nil, err
		}
		tags = []taxonomy.Tag{t}
	}

	out := &PatternsOutput{Items: make([]TagPatterns, 0, len(tags))}
	for _, t := range tags {
		out.Items = append(out.Items, TagPatterns{Tag: t, Patterns: env.Patterns.Patterns(t)})
	}
	return out, nil
}

// AntiPatternsOutput contains the result of the AntiPatterns operation.
type AntiPatternsOutput struct {
	Items []taxonomy.AntiPattern `json:"items"`
}

// AntiPatterns returns the known misleading phrases.
func AntiPatterns(env *Env) *AntiPatternsOutput {
	return &AntiPatternsOutput{Items: env.Patterns.AntiPatterns()}
}
