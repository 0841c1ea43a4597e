package sql

import (
	"context"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize is the number of catalog responses a context keeps by
// default.
const DefaultCacheSize = 128

// Context is the scratch state of one analysis. It is bound to one catalog
// handle, created for a single statement and discarded afterwards. It must
// not be shared between concurrent analyses.
type Context struct {
	context.Context
	id      uuid.UUID
	catalog Catalog
	query   string
	tracer  opentracing.Tracer
	log     *logrus.Entry
	cache   *lookupCache
	// tables holds the lowercased canonical names of the tables the
	// statement declared so far.
	tables map[string]struct{}
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithQuery adds the given query to the context.
func WithQuery(q string) ContextOption {
	return func(ctx *Context) {
		ctx.query = q
	}
}

// WithLogger sets the logger the context derives its entry from.
func WithLogger(l *logrus.Logger) ContextOption {
	return func(ctx *Context) {
		ctx.log = logrus.NewEntry(l)
	}
}

// WithCacheSize sets the number of catalog responses cached by the context.
// A size of zero disables caching.
func WithCacheSize(size int) ContextOption {
	return func(ctx *Context) {
		ctx.cache = newLookupCache(size)
	}
}

// NewContext creates a new analysis context bound to the given catalog.
// Options can be passed to configure the context. By default, the context has
// a noop tracer, the standard logger and a catalog cache of DefaultCacheSize
// entries.
func NewContext(ctx context.Context, catalog Catalog, opts ...ContextOption) *Context {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}

	c := &Context{
		Context: ctx,
		id:      id,
		catalog: catalog,
		tracer:  opentracing.NoopTracer{},
		log:     logrus.NewEntry(logrus.StandardLogger()),
		cache:   newLookupCache(DefaultCacheSize),
		tables:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	fields := logrus.Fields{"context_id": c.id.String()}
	if c.query != "" {
		fields["query"] = c.query
	}
	c.log = c.log.WithFields(fields)

	return c
}

// NewEmptyContext returns a context with default values bound to the given
// catalog.
func NewEmptyContext(catalog Catalog) *Context {
	return NewContext(context.TODO(), catalog)
}

// ID returns the unique identifier of the context.
func (c *Context) ID() uuid.UUID { return c.id }

// Catalog returns the catalog the context is bound to.
func (c *Context) Catalog() Catalog { return c.catalog }

// Query returns the query string associated with this context.
func (c *Context) Query() string { return c.query }

// Log returns the logger entry of the context.
func (c *Context) Log() *logrus.Entry { return c.log }

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context. The
// scratch state is shared with the receiver.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// AddTable declares a table of the statement. Its canonical name, the alias
// if given or the name otherwise, must not be declared already.
func (c *Context) AddTable(name, alias string) error {
	canonical := alias
	if canonical == "" {
		canonical = name
	}

	key := strings.ToLower(canonical)
	if _, ok := c.tables[key]; ok {
		return ErrDuplicateAlias.New(canonical)
	}

	c.tables[key] = struct{}{}
	return nil
}

// ContextFactory creates analysis contexts bound to one catalog.
type ContextFactory struct {
	catalog Catalog
	opts    []ContextOption
}

// NewContextFactory returns a factory of contexts bound to the given catalog.
// The options are applied to every context it creates, before the options
// given to NewContext.
func NewContextFactory(catalog Catalog, opts ...ContextOption) *ContextFactory {
	return &ContextFactory{catalog: catalog, opts: opts}
}

// Catalog returns the catalog the factory is bound to.
func (f *ContextFactory) Catalog() Catalog { return f.catalog }

// NewContext creates a new context for a single analysis.
func (f *ContextFactory) NewContext(ctx context.Context, opts ...ContextOption) *Context {
	all := make([]ContextOption, 0, len(f.opts)+len(opts))
	all = append(all, f.opts...)
	all = append(all, opts...)
	return NewContext(ctx, f.catalog, all...)
}
