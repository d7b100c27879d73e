package ops

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/mailtag/internal/classify"
	"github.com/hpungsan/mailtag/internal/config"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

func TestClassify_HappyPath(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	out, err := Classify(context.Background(), env, ClassifyInput{
		CustomerID: "customer_B",
		Subject:    "Cannot reset password",
		Body:       "The reset link never arrives.",
	})
	require.NoError(t, err)

	require.Equal(t, taxonomy.AccountIssue, out.Tag)
	require.Equal(t, 0.91, out.Confidence)
	require.Equal(t, "Account access patterns: authentication/verification problems", out.Reasoning)
	require.Equal(t, []string{"password"}, out.Matched)
	require.False(t, out.NeedsReview)
	require.Equal(t, "customer_B", out.CustomerID)
	require.Equal(t, classify.ModeCascade, out.Mode)
	require.Equal(t, fixedNow, out.ClassifiedAt)

	id, err := ulid.Parse(out.ID)
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(fixedNow), id.Time())

	allowed, _ := env.Catalog.TagsFor("customer_B")
	require.Equal(t, allowed, out.AllowedTags)
	require.Equal(t, out.Tag, out.Result().Tag)
}

func TestClassify_Fallback(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	out, err := Classify(context.Background(), env, ClassifyInput{
		CustomerID: "customer_C",
		Subject:    "Hello",
		Body:       "Thanks for everything.",
	})
	require.NoError(t, err)
	require.Equal(t, taxonomy.Billing, out.Tag)
	require.Equal(t, 0.5, out.Confidence)
	require.Empty(t, out.Reasoning)
	require.True(t, out.NeedsReview)
}

func TestClassify_ModeOverride(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	input := ClassifyInput{
		Tags:    []string{"Billing", "General Inquiry"},
		Subject: "payment",
		Body:    "how to pay",
	}

	out, err := Classify(context.Background(), env, input)
	require.NoError(t, err)
	require.Equal(t, taxonomy.GeneralInquiry, out.Tag)

	input.Mode = "highest"
	out, err = Classify(context.Background(), env, input)
	require.NoError(t, err)
	require.Equal(t, taxonomy.Billing, out.Tag)
	require.Equal(t, classify.ModeHighest, out.Mode)
	require.Empty(t, out.CustomerID)
}

func TestClassify_ConfiguredMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ScoringMode = "highest"
	env := newTestEnv(t, cfg, nil)

	out, err := Classify(context.Background(), env, ClassifyInput{
		Tags:    []string{"billing", "general inquiry"},
		Subject: "payment",
		Body:    "how to pay",
	})
	require.NoError(t, err)
	require.Equal(t, taxonomy.Billing, out.Tag)
}

func TestClassify_TagsNarrowCustomer(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	out, err := Classify(context.Background(), env, ClassifyInput{
		CustomerID: "customer_C",
		Tags:       []string{"Bug Report", "Bug Report"},
		Subject:    "payment failed",
		Body:       "the app is broken",
	})
	require.NoError(t, err)
	require.Equal(t, taxonomy.BugReport, out.Tag)
	require.Equal(t, []taxonomy.Tag{taxonomy.BugReport}, out.AllowedTags)
}

func TestClassify_Errors(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	tests := []struct {
		name  string
		input ClassifyInput
		code  errors.ErrorCode
	}{
		{"blank subject", ClassifyInput{CustomerID: "customer_A", Subject: "  ", Body: "x"}, errors.ErrInvalidRequest},
		{"blank body", ClassifyInput{CustomerID: "customer_A", Subject: "x", Body: ""}, errors.ErrInvalidRequest},
		{"no customer or tags", ClassifyInput{Subject: "x", Body: "y"}, errors.ErrInvalidRequest},
		{"unknown customer", ClassifyInput{CustomerID: "customer_Z", Subject: "x", Body: "y"}, errors.ErrNotFound},
		{"unknown tag", ClassifyInput{Tags: []string{"Spam"}, Subject: "x", Body: "y"}, errors.ErrInvalidRequest},
		{"tag outside customer", ClassifyInput{CustomerID: "customer_A", Tags: []string{"Bug Report"}, Subject: "x", Body: "y"}, errors.ErrInvalidRequest},
		{"bad mode", ClassifyInput{CustomerID: "customer_A", Subject: "x", Body: "y", Mode: "random"}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(context.Background(), env, tt.input)
			if !errors.Is(err, tt.code) {
				t.Errorf("Classify() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestClassify_Blank_MessageText(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	_, err := Classify(context.Background(), env, ClassifyInput{CustomerID: "customer_A"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "subject and body are required")
}

func TestClassify_PaddedTextMatchesCore(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	allowed, _ := env.Catalog.TagsFor("customer_B")

	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{"trailing newline on body", "to reset", "Can you tell me how\n"},
		{"leading space on subject", " password help", "  I am locked out.  "},
		{"tabs around both", "\tcrash report\t", "\tThe app is broken\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := env.Classifier.Classify(tt.subject, tt.body, allowed)
			require.NoError(t, err)

			out, err := Classify(context.Background(), env, ClassifyInput{
				CustomerID: "customer_B",
				Subject:    tt.subject,
				Body:       tt.body,
			})
			require.NoError(t, err)
			require.Equal(t, want.Tag, out.Tag)
			require.Equal(t, want.Confidence, out.Confidence)
			require.Equal(t, want.Reasoning, out.Reasoning)
		})
	}
}

func TestClassify_PaddedTextKeepsWhitespace(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	// "how\n" + " " + "to reset" must not join into "how to".
	out, err := Classify(context.Background(), env, ClassifyInput{
		CustomerID: "customer_B",
		Subject:    "to reset",
		Body:       "Can you tell me how\n",
	})
	require.NoError(t, err)
	require.Equal(t, taxonomy.AccountIssue, out.Tag)
	require.Equal(t, 0.5, out.Confidence)
	require.True(t, out.NeedsReview)
}

func TestClassify_DelayCanceled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ClassifyDelayMS = 10_000
	env := newTestEnv(t, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Classify(ctx, env, ClassifyInput{CustomerID: "customer_A", Subject: "refund", Body: "please"})
	if !errors.Is(err, errors.ErrCanceled) {
		t.Fatalf("Classify() error = %v, want CANCELED", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Classify() waited %v after cancellation", time.Since(start))
	}
}

func TestClassify_DelayElapses(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ClassifyDelayMS = 20
	env := newTestEnv(t, cfg, nil)

	start := time.Now()
	out, err := Classify(context.Background(), env, ClassifyInput{CustomerID: "customer_A", Subject: "refund", Body: "please"})
	require.NoError(t, err)
	require.Equal(t, taxonomy.Billing, out.Tag)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestClassify_AlreadyCanceled(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Classify(ctx, env, ClassifyInput{CustomerID: "customer_A", Subject: "refund", Body: "please"})
	if !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("Classify() error = %v, want CANCELED", err)
	}
}

func TestClassify_DatasetIsolation(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	for _, e := range env.Dataset.All() {
		out, err := Classify(context.Background(), env, ClassifyInput{
			CustomerID: e.CustomerID,
			Subject:    e.Subject,
			Body:       e.Body,
		})
		require.NoError(t, err, "email %s", e.ID)

		allowed, _ := env.Catalog.TagsFor(e.CustomerID)
		if !taxonomy.Contains(allowed, out.Tag) {
			t.Errorf("email %s: tag %q outside %s tags %v", e.ID, out.Tag, e.CustomerID, allowed)
		}
	}
}

func TestClassify_Concurrent(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Classify(context.Background(), env, ClassifyInput{
				CustomerID: "customer_A", Subject: "API error", Body: "503 from the gateway",
			})
			if err != nil {
				t.Errorf("Classify() error = %v", err)
				return
			}
			ids[i] = out.ID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
