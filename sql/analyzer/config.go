package analyzer

import (
	"strings"

	"github.com/src-d/go-nql/sql"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidPolicy is returned when a configuration names an unknown policy.
var ErrInvalidPolicy = errors.NewKind("invalid %s policy: %q")

// GroupByPolicy tells how the targets of a grouped query are checked.
type GroupByPolicy string

const (
	// LenientGroupBy accepts any target in a grouped query.
	LenientGroupBy GroupByPolicy = "lenient"
	// StrictGroupBy requires the columns of non-aggregated targets to be
	// grouped.
	StrictGroupBy GroupByPolicy = "strict"
)

// NaturalJoinPolicy tells what to do with a natural join whose sides have no
// column in common.
type NaturalJoinPolicy string

const (
	// DegradeNaturalJoin turns the join into a cross join.
	DegradeNaturalJoin NaturalJoinPolicy = "degrade"
	// RejectNaturalJoin fails the analysis.
	RejectNaturalJoin NaturalJoinPolicy = "reject"
)

// Config holds the options of the analyzer.
type Config struct {
	GroupBy     GroupByPolicy     `yaml:"group_by"`
	NaturalJoin NaturalJoinPolicy `yaml:"natural_join"`
	// CatalogCacheSize is the number of catalog responses each context
	// keeps. Zero disables the cache.
	CatalogCacheSize int  `yaml:"catalog_cache_size"`
	Debug            bool `yaml:"debug"`
}

// DefaultConfig returns the lenient configuration.
func DefaultConfig() Config {
	return Config{
		GroupBy:          LenientGroupBy,
		NaturalJoin:      DegradeNaturalJoin,
		CatalogCacheSize: sql.DefaultCacheSize,
	}
}

// Validate checks that the policies are known. Empty policies are valid and
// mean the default one.
func (c Config) Validate() error {
	switch GroupByPolicy(strings.ToLower(string(c.GroupBy))) {
	case "", LenientGroupBy, StrictGroupBy:
	default:
		return ErrInvalidPolicy.New("group by", c.GroupBy)
	}

	switch NaturalJoinPolicy(strings.ToLower(string(c.NaturalJoin))) {
	case "", DegradeNaturalJoin, RejectNaturalJoin:
	default:
		return ErrInvalidPolicy.New("natural join", c.NaturalJoin)
	}

	return nil
}

func (c Config) withDefaults() Config {
	c.GroupBy = GroupByPolicy(strings.ToLower(string(c.GroupBy)))
	if c.GroupBy != StrictGroupBy {
		c.GroupBy = LenientGroupBy
	}

	c.NaturalJoin = NaturalJoinPolicy(strings.ToLower(string(c.NaturalJoin)))
	if c.NaturalJoin != RejectNaturalJoin {
		c.NaturalJoin = DegradeNaturalJoin
	}
	return c
}
