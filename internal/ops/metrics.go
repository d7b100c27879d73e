package ops

import (
	"context"

	"github.com/hpungsan/mailtag/internal/db"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// SimulatedErrors is the number of misclassifications behind the simulated
// error rate shown on the dashboard.
const SimulatedErrors = 14

// ConfusionPair is a commonly confused tag pair.
type ConfusionPair struct {
	From   taxonomy.Tag `json:"from"`
	To     taxonomy.Tag `json:"to"`
	Count  int          `json:"count"`
	Reason string       `json:"reason"`
}

// confusionPairs are the illustrative pairs shown on the dashboard.
var confusionPairs = []ConfusionPair{
	{taxonomy.Billing, taxonomy.FeatureRequest, 3, "'upgrade' in billing context"},
	{taxonomy.TechnicalSupport, taxonomy.BugReport, 5, "Error messages overlap"},
	{taxonomy.GeneralInquiry, taxonomy.AccountIssue, 2, "Account-related questions"},
	{taxonomy.BugReport, taxonomy.TechnicalSupport, 4, "System errors ambiguity"},
}

// ConfusionPairs returns a copy of the illustrative confusion pairs.
func ConfusionPairs() []ConfusionPair {
	return append([]ConfusionPair(nil), confusionPairs...)
}

// TagCount is the number of emails carrying one tag.
type TagCount struct {
	Tag   taxonomy.Tag `json:"tag"`
	Count int          `json:"count"`
}

// CustomerMetrics holds per-customer figures.
type CustomerMetrics struct {
	CustomerID  string     `json:"customer_id"`
	Name        string     `json:"name"`
	TotalEmails int        `json:"total_emails"`
	TagCounts   []TagCount `json:"tag_counts"`

	// SimulatedAccuracy is the dashboard figure, 0.87 plus up to 0.1 of noise.
	SimulatedAccuracy float64 `json:"simulated_accuracy"`

	// RuleAccuracy is the measured fraction of the customer's emails whose
	// predicted tag equals the label.
	RuleAccuracy float64 `json:"rule_accuracy"`
}

// MetricsOutput contains the result of the Metrics operation.
type MetricsOutput struct {
	TotalEmails       int               `json:"total_emails"`
	CustomerCount     int               `json:"customer_count"`
	UniqueTags        int               `json:"unique_tags"`
	OverallAccuracy   float64           `json:"overall_accuracy"`
	RuleAccuracy      float64           `json:"rule_accuracy"`
	TagLeakage        int               `json:"tag_leakage"`
	PredictionLeakage int               `json:"prediction_leakage"`
	ErrorRate         float64           `json:"error_rate"`
	Customers         []CustomerMetrics `json:"customers"`
	ConfusionPairs    []ConfusionPair   `json:"confusion_pairs"`
}

// Metrics aggregates dataset statistics. Simulated figures draw from the
// environment's random source; measured figures run the classifier over
// every dataset email with its customer's tags.
func Metrics(ctx context.Context, env *Env) (*MetricsOutput, error) {
	total, err := db.CountEmails(ctx, env.DB, "")
	if err != nil {
		return nil, err
	}
	counts, err := db.TagCounts(ctx, env.DB)
	if err != nil {
		return nil, err
	}
	leakage, err := db.CountLeakage(ctx, env.DB)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[string][]TagCount)
	for _, c := range counts {
		byCustomer[c.CustomerID] = append(byCustomer[c.CustomerID], TagCount{Tag: c.Tag, Count: c.Count})
	}

	out := &MetricsOutput{
		TotalEmails:    total,
		UniqueTags:     len(taxonomy.AllTags()),
		TagLeakage:     leakage,
		ConfusionPairs: ConfusionPairs(),
	}
	if total > 0 {
		out.ErrorRate = float64(SimulatedErrors) / float64(total)
	}

	var simSum float64
	var correct, classified int
	for _, cust := range env.Catalog.Customers() {
		m := CustomerMetrics{
			CustomerID:        cust.ID,
			Name:              cust.Name,
			TagCounts:         byCustomer[cust.ID],
			SimulatedAccuracy: 0.87 + env.float64()*0.1,
		}
		if m.TagCounts == nil {
			m.TagCounts = []TagCount{}
		}
		for _, tc := range m.TagCounts {
			m.TotalEmails += tc.Count
		}

		ok, n, leaked, err := measure(env, cust)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			m.RuleAccuracy = float64(ok) / float64(n)
		}
		correct += ok
		classified += n
		out.PredictionLeakage += leaked

		simSum += m.SimulatedAccuracy
		out.Customers = append(out.Customers, m)
	}

	out.CustomerCount = len(out.Customers)
	if out.CustomerCount > 0 {
		out.OverallAccuracy = simSum / float64(out.CustomerCount)
	}
	if classified > 0 {
		out.RuleAccuracy = float64(correct) / float64(classified)
	}

	env.Log.Debug("metrics computed",
		"total_emails", total,
		"rule_accuracy", out.RuleAccuracy,
		"tag_leakage", leakage,
	)
	return out, nil
}

// measure classifies every dataset email of cust and reports how many
// predictions match the label, how many were made, and how many fell
// outside the customer's tags.
func measure(env *Env, cust taxonomy.Customer) (correct, total, leaked int, err error) {
	for _, e := range env.Dataset.ByCustomer(cust.ID) {
		res, err := env.Classifier.Classify(e.Subject, e.Body, cust.Tags)
		if err != nil {
			return 0, 0, 0, err
		}
		total++
		if res.Tag == e.Tag {
			correct++
		}
		if !taxonomy.Contains(cust.Tags, res.Tag) {
			leaked++
		}
	}
	return correct, total, leaked, nil
}
