// Package nql analyzes NQL statements against a catalog: it parses SQL text
// and binds it to the tables, columns and functions of the catalog.
package nql // import "github.com/src-d/go-nql"

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/analyzer"
	"github.com/src-d/go-nql/sql/parse"
	"github.com/src-d/go-nql/sql/plan"
)

// Engine parses and analyzes queries.
type Engine struct {
	Catalog  sql.Catalog
	Analyzer *analyzer.Analyzer
	factory  *sql.ContextFactory
}

// New creates a new Engine with the default configuration.
func New(c sql.Catalog) *Engine {
	e, _ := NewFromConfig(c, DefaultConfig(), logrus.StandardLogger(), nil)
	return e
}

// NewFromConfig creates a new Engine with the given configuration. Contexts
// created by the engine log through the given logger. If metrics is not nil,
// the analyzer counts the statements it analyzes.
func NewFromConfig(
	c sql.Catalog,
	config Config,
	logger *logrus.Logger,
	metrics *analyzer.Metrics,
) (*Engine, error) {
	if err := config.Analyzer.Validate(); err != nil {
		return nil, err
	}

	a := analyzer.NewBuilder(c).
		WithConfig(config.Analyzer).
		WithMetrics(metrics).
		Build()

	factory := sql.NewContextFactory(c,
		sql.WithLogger(logger),
		sql.WithCacheSize(config.Analyzer.CatalogCacheSize),
	)

	return &Engine{Catalog: c, Analyzer: a, factory: factory}, nil
}

// Analyze parses the query and binds it. Parse errors are returned as they
// are; analysis errors are sql.ErrInvalidQuery.
func (e *Engine) Analyze(ctx context.Context, query string) (plan.Statement, error) {
	sctx := e.factory.NewContext(ctx, sql.WithQuery(query))

	parsed, err := parse.Parse(sctx, query)
	if err != nil {
		return nil, err
	}

	return e.Analyzer.Analyze(sctx, parsed)
}

// AnalyzeAll analyzes the queries in order, stopping at the first failure.
// Statements that create tables or indexes are not applied to the catalog,
// so later queries cannot depend on earlier ones.
func (e *Engine) AnalyzeAll(ctx context.Context, queries ...string) ([]plan.Statement, error) {
	stmts := make([]plan.Statement, 0, len(queries))
	for _, q := range queries {
		stmt, err := e.Analyze(ctx, q)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
