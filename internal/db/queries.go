package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// EmailFilter narrows ListEmails. Nil fields are not applied.
type EmailFilter struct {
	CustomerID *string
	Tag        *taxonomy.Tag
	Limit      int
	Offset     int
}

// TagCount is the number of emails with one tag for one customer.
type TagCount struct {
	CustomerID string       `json:"customer_id"`
	Tag        taxonomy.Tag `json:"tag"`
	Count      int          `json:"count"`
}

const emailColumns = `id, customer_id, tag, subject, body, received_at`

// GetEmail retrieves an email by identifier.
func GetEmail(ctx context.Context, db *sql.DB, id string) (*dataset.Email, error) {
	row := db.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = ?`, id)
	e, err := scanEmail(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewEmailNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// ListEmails returns emails in dataset order plus the total matching count.
// Limit <= 0 means no limit.
func ListEmails(ctx context.Context, db *sql.DB, f EmailFilter) ([]dataset.Email, int, error) {
	where, args := f.where()

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + emailColumns + ` FROM emails` + where + ` ORDER BY seq`
	pageArgs := append([]any(nil), args...)
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		pageArgs = append(pageArgs, f.Limit, f.Offset)
	} else if f.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		pageArgs = append(pageArgs, f.Offset)
	}

	rows, err := db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	emails := make([]dataset.Email, 0)
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		emails = append(emails, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return emails, total, nil
}

// CountEmails returns the number of emails for a customer, or all emails when customerID is empty.
func CountEmails(ctx context.Context, db *sql.DB, customerID string) (int, error) {
	f := EmailFilter{}
	if customerID != "" {
		f.CustomerID = &customerID
	}
	where, args := f.where()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`+where, args...).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// EmailAt returns the n-th email (0-based, dataset order) of a customer.
// An n past the customer's last email is a NOT_FOUND for its samples.
func EmailAt(ctx context.Context, db *sql.DB, customerID string, n int) (*dataset.Email, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+emailColumns+` FROM emails WHERE customer_id = ? ORDER BY seq LIMIT 1 OFFSET ?`,
		customerID, n,
	)
	e, err := scanEmail(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNoSamples(customerID)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// TagCounts returns per-customer tag counts, ordered by catalog customer
// order and then by the customer's tag order. Tags with no emails are omitted.
func TagCounts(ctx context.Context, db *sql.DB) ([]TagCount, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.customer_id, e.tag, COUNT(*)
		FROM emails e
		LEFT JOIN customers c ON c.id = e.customer_id
		LEFT JOIN customer_tags ct ON ct.customer_id = e.customer_id AND ct.tag = e.tag
		GROUP BY e.customer_id, e.tag
		ORDER BY COALESCE(c.position, 1e9), e.customer_id, COALESCE(ct.position, 1e9), e.tag
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	counts := make([]TagCount, 0)
	for rows.Next() {
		var tc TagCount
		var tag string
		if err := rows.Scan(&tc.CustomerID, &tag, &tc.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		tc.Tag = taxonomy.Tag(tag)
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// CountLeakage returns the number of emails labeled with a tag their
// customer may not receive (including emails of unknown customers).
func CountLeakage(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM emails e
		WHERE NOT EXISTS (
			SELECT 1 FROM customer_tags ct
			WHERE ct.customer_id = e.customer_id AND ct.tag = e.tag
		)
	`).Scan(&n)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func (f EmailFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.CustomerID != nil {
		clauses = append(clauses, "customer_id = ?")
		args = append(args, *f.CustomerID)
	}
	if f.Tag != nil {
		clauses = append(clauses, "tag = ?")
		args = append(args, string(*f.Tag))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEmail scans a single row into an Email.
func scanEmail(row rowScanner) (*dataset.Email, error) {
	var (
		e          dataset.Email
		tag        string
		receivedAt int64
	)
	if err := row.Scan(&e.ID, &e.CustomerID, &tag, &e.Subject, &e.Body, &receivedAt); err != nil {
		return nil, err
	}
	e.Tag = taxonomy.Tag(tag)
	e.Timestamp = time.Unix(receivedAt, 0).UTC()
	return &e, nil
}
