package ops

import (
	"context"

	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/db"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// SampleOutput contains the result of the Sample operation.
type SampleOutput struct {
	Email    dataset.Email     `json:"email"`
	Customer taxonomy.Customer `json:"customer"`
}

// Sample picks a random email from the customer's partition of the dataset.
func Sample(ctx context.Context, env *Env, customerID string) (*SampleOutput, error) {
	cust, err := env.resolveCustomer(customerID)
	if err != nil {
		return nil, err
	}

	n, err := db.CountEmails(ctx, env.DB, cust.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.NewNoSamples(cust.ID)
	}

	e, err := db.EmailAt(ctx, env.DB, cust.ID, env.intN(n))
	if err != nil {
		return nil, err
	}

	return &SampleOutput{Email: *e, Customer: cust}, nil
}
