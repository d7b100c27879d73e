package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/db"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// ListEmailsInput contains parameters for the ListEmails operation.
type ListEmailsInput struct {
	CustomerID string // optional
	Tag        string // optional
	Limit      int    // default: 20, max: 100
	Offset     int    // default: 0
}

// ListEmailsOutput contains the result of the ListEmails operation.
type ListEmailsOutput struct {
	Items      []dataset.Email `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// ListEmails returns sample emails in dataset order, optionally filtered by
// customer and tag.
func ListEmails(ctx context.Context, env *Env, input ListEmailsInput) (*ListEmailsOutput, error) {
	var filter db.EmailFilter

	if id := strings.TrimSpace(input.CustomerID); id != "" {
		cust, err := env.resolveCustomer(id)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = &cust.ID
	}
	if strings.TrimSpace(input.Tag) != "" {
		tag, err := taxonomy.ParseTag(input.Tag)
		if err != nil {
			return nil, err
		}
		filter.Tag = &tag
	}

	limit, offset := clampPage(input.Limit, input.Offset)
	filter.Limit, filter.Offset = limit, offset

	items, total, err := db.ListEmails(ctx, env.DB, filter)
	if err != nil {
		return nil, err
	}

	return &ListEmailsOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}

// GetEmail retrieves a sample email by id.
func GetEmail(ctx context.Context, env *Env, id string) (*dataset.Email, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	return db.GetEmail(ctx, env.DB, id)
}
