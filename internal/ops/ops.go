// Package ops is the operations layer shared by the CLI, MCP and web
// surfaces. Each operation validates its input, talks to the classifier,
// catalog and dataset store, and returns coded errors.
package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log/slog"
	mrand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mailtag/internal/classify"
	"github.com/hpungsan/mailtag/internal/config"
	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/db"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/logger"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Env bundles everything an operation needs. Build it with NewEnv.
// All fields are read-only after construction except the random source,
// which is guarded by a mutex.
type Env struct {
	DB         *sql.DB
	Cfg        *config.Config
	Catalog    *taxonomy.Catalog
	Patterns   *taxonomy.PatternBook
	Dataset    *dataset.Dataset
	Classifier *classify.Classifier
	Log        *slog.Logger

	mu   sync.Mutex
	rand *mrand.Rand
	now  func() time.Time
}

// EnvOptions overrides parts of the environment. Zero values select defaults.
type EnvOptions struct {
	Dataset *dataset.Dataset // default: the built-in dataset
	Rand    *mrand.Rand      // default: seeded from the clock
	Log     *slog.Logger     // default: discard
	Now     func() time.Time // default: time.Now
}

// NewEnv builds the catalog, pattern book and classifier, then loads the
// dataset into a fresh in-memory database. Close releases the database.
func NewEnv(ctx context.Context, cfg *config.Config, opts EnvOptions) (*Env, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	mode, err := classify.ParseMode(cfg.ScoringMode)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Cfg:        cfg,
		Catalog:    taxonomy.NewCatalog(),
		Patterns:   taxonomy.NewPatternBook(),
		Dataset:    opts.Dataset,
		Classifier: classify.NewDefault(mode),
		Log:        opts.Log,
		rand:       opts.Rand,
		now:        opts.Now,
	}
	if env.Dataset == nil {
		env.Dataset = dataset.New()
	}
	if env.Log == nil {
		env.Log = logger.Discard()
	}
	if env.rand == nil {
		seed := uint64(time.Now().UnixNano())
		env.rand = mrand.New(mrand.NewPCG(seed, seed>>32|1))
	}
	if env.now == nil {
		env.now = time.Now
	}

	database, err := db.Init(ctx, env.Catalog, env.Dataset)
	if err != nil {
		return nil, err
	}
	env.DB = database

	env.Log.Debug("environment ready",
		"scoring_mode", mode,
		"emails", env.Dataset.Len(),
		"customers", len(env.Catalog.Customers()),
	)
	return env, nil
}

// Close releases the database.
func (e *Env) Close() error {
	if e.DB == nil {
		return nil
	}
	return e.DB.Close()
}

// intN returns a random int in [0, n).
func (e *Env) intN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rand.IntN(n)
}

// float64 returns a random float in [0, 1).
func (e *Env) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rand.Float64()
}

// newID generates a ULID for the current time.
func (e *Env) newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(e.now()), entropy).String()
}

// resolveCustomer trims and looks up a customer id.
func (e *Env) resolveCustomer(customerID string) (taxonomy.Customer, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return taxonomy.Customer{}, errors.NewInvalidRequest("customer_id is required")
	}
	c, ok := e.Catalog.Customer(customerID)
	if !ok {
		return taxonomy.Customer{}, errors.NewCustomerNotFound(customerID)
	}
	return c, nil
}

// clampPage applies list defaults and bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, max(offset, 0)
}
