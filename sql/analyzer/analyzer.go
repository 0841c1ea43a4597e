package analyzer

import (
	"fmt"
	"os"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/plan"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

// Builder provides an easy way to generate an Analyzer with custom options.
type Builder struct {
	catalog sql.Catalog
	config  Config
	metrics *Metrics
}

// NewBuilder creates a new Builder for a specific catalog.
func NewBuilder(c sql.Catalog) *Builder {
	return &Builder{catalog: c, config: DefaultConfig()}
}

// WithConfig replaces the whole configuration of the analyzer.
func (ab *Builder) WithConfig(config Config) *Builder {
	ab.config = config
	return ab
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.config.Debug = true
	return ab
}

// WithGroupByPolicy sets how targets of grouped queries are checked.
func (ab *Builder) WithGroupByPolicy(p GroupByPolicy) *Builder {
	ab.config.GroupBy = p
	return ab
}

// WithNaturalJoinPolicy sets what happens to natural joins without common
// columns.
func (ab *Builder) WithNaturalJoinPolicy(p NaturalJoinPolicy) *Builder {
	ab.config.NaturalJoin = p
	return ab
}

// WithMetrics makes the analyzer count the statements it analyzes.
func (ab *Builder) WithMetrics(m *Metrics) *Builder {
	ab.metrics = m
	return ab
}

// Build creates a new Analyzer using all previous data set to the Builder.
func (ab *Builder) Build() *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	config := ab.config.withDefaults()

	return &Analyzer{
		Debug:       debug || config.Debug,
		GroupBy:     config.GroupBy,
		NaturalJoin: config.NaturalJoin,
		Catalog:     ab.catalog,
		metrics:     ab.metrics,
	}
}

// Analyzer binds parsed statements to the catalog. It holds no state
// between calls, so a single Analyzer can serve any number of concurrent
// analyses as long as each one has its own context.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug bool
	// GroupBy is the policy used to check targets of grouped queries.
	GroupBy GroupByPolicy
	// NaturalJoin is the policy for natural joins without common columns.
	NaturalJoin NaturalJoinPolicy
	// Catalog is used when the context is not bound to a catalog.
	Catalog sql.Catalog
	metrics *Metrics
}

// NewDefault creates a default Analyzer instance with the lenient policies.
func NewDefault(c sql.Catalog) *Analyzer {
	return NewBuilder(c).Build()
}

// Log prints an INFO message with the given message and args through the
// context logger if the analyzer is in debug mode.
func (a *Analyzer) Log(ctx *sql.Context, msg string, args ...interface{}) {
	if a != nil && a.Debug {
		ctx.Log().Infof(msg, args...)
	}
}

// Analyze binds the statement and returns its bound form. Any failure is
// reported as sql.ErrInvalidQuery, with the actual reason as its cause, and
// no statement.
func (a *Analyzer) Analyze(ctx *sql.Context, stmt ast.Statement) (plan.Statement, error) {
	kind := statementKind(stmt)
	span, ctx := ctx.Span("analyze", opentracing.Tags{"kind": kind})
	defer span.Finish()

	a.Log(ctx, "starting analysis of statement of type: %T", stmt)
	result, err := a.analyze(ctx, stmt)
	if err != nil {
		a.Log(ctx, "analysis failed: %s", err)
		span.SetTag("error", true)
		a.metrics.observe(kind, resultError)
		return nil, sql.ErrInvalidQuery.Wrap(err, err.Error())
	}

	a.Log(ctx, "analysis finished:\n%s", result)
	a.metrics.observe(kind, resultOK)
	return result, nil
}

func (a *Analyzer) analyze(ctx *sql.Context, stmt ast.Statement) (plan.Statement, error) {
	if a.catalog(ctx) == nil {
		return nil, sql.ErrCatalogUnavailable.New("no catalog")
	}

	switch stmt := stmt.(type) {
	case *ast.Select:
		if len(stmt.From) == 0 {
			return a.bindBareExpr(ctx, stmt)
		}
		return a.bindSelect(ctx, stmt)
	case *ast.CreateTable:
		if stmt.AsSelect != nil {
			return a.bindCreateTableAsSelect(ctx, stmt)
		}
		return a.bindCreateTable(ctx, stmt)
	case *ast.CreateIndex:
		return a.bindCreateIndex(ctx, stmt)
	default:
		return nil, sql.ErrUnsupportedStatement.New(stmt)
	}
}

func statementKind(stmt ast.Statement) string {
	switch stmt := stmt.(type) {
	case *ast.Select:
		if len(stmt.From) == 0 {
			return "expression"
		}
		return "select"
	case *ast.CreateTable:
		return "create_table"
	case *ast.CreateIndex:
		return "create_index"
	default:
		return fmt.Sprintf("%T", stmt)
	}
}
