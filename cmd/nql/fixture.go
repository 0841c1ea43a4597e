package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/src-d/go-nql/sql"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidFixture is returned when a fixture file cannot be loaded.
var ErrInvalidFixture = errors.NewKind("invalid fixture: %s")

// fixture is the content of a catalog fixture file. Scalars such as
// nullable flags and option values may be written in any YAML form; they
// are coerced when the fixture is loaded.
type fixture struct {
	Tables    []fixtureTable    `yaml:"tables"`
	Functions []fixtureFunction `yaml:"functions"`
	Indexes   []fixtureIndex    `yaml:"indexes"`
}

type fixtureTable struct {
	Name    string                 `yaml:"name"`
	Store   string                 `yaml:"store"`
	Path    string                 `yaml:"path"`
	Options map[string]interface{} `yaml:"options"`
	Columns []fixtureColumn        `yaml:"columns"`
}

type fixtureColumn struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Nullable interface{} `yaml:"nullable"`
}

type fixtureFunction struct {
	Name        string   `yaml:"name"`
	Aggregate   bool     `yaml:"aggregate"`
	Returns     string   `yaml:"returns"`
	Params      []string `yaml:"params"`
	Description string   `yaml:"description"`
	Example     string   `yaml:"example"`
}

type fixtureIndex struct {
	Name       string      `yaml:"name"`
	Table      string      `yaml:"table"`
	Column     string      `yaml:"column"`
	Method     string      `yaml:"method"`
	Unique     interface{} `yaml:"unique"`
	Descending interface{} `yaml:"descending"`
}

// loaded counts what a fixture added to the catalog.
type loaded struct {
	tables, functions, indexes int
}

func (l loaded) String() string {
	return fmt.Sprintf("%d tables, %d functions, %d indexes", l.tables, l.functions, l.indexes)
}

// loadFixture adds the tables, functions and indexes of the fixture to the
// catalog, in that order. It stops at the first failure.
func loadFixture(c sql.Catalog, data []byte) (loaded, error) {
	var n loaded
	var f fixture
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return n, ErrInvalidFixture.Wrap(err, err.Error())
	}

	for _, t := range f.Tables {
		desc, err := t.desc()
		if err != nil {
			return n, err
		}
		if err := c.AddTable(desc); err != nil {
			return n, err
		}
		n.tables++
	}

	for _, fn := range f.Functions {
		desc, err := fn.desc()
		if err != nil {
			return n, err
		}
		if err := c.RegisterFunction(desc); err != nil {
			return n, err
		}
		n.functions++
	}

	for _, idx := range f.Indexes {
		desc, err := idx.desc(c)
		if err != nil {
			return n, err
		}
		if err := c.AddIndex(desc); err != nil {
			return n, err
		}
		n.indexes++
	}

	return n, nil
}

func (t fixtureTable) desc() (*sql.TableDesc, error) {
	if t.Name == "" {
		return nil, ErrInvalidFixture.New("table without name")
	}

	storeType := sql.CSV
	if t.Store != "" {
		var err error
		if storeType, err = sql.ParseStoreType(t.Store); err != nil {
			return nil, err
		}
	}

	options := make(map[string]string, len(t.Options))
	for k, v := range t.Options {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, ErrInvalidFixture.New(fmt.Sprintf("option %s of table %s: %s", k, t.Name, err))
		}
		options[k] = s
	}

	cols := make([]*sql.Column, len(t.Columns))
	for i, c := range t.Columns {
		typ, err := sql.ParseColumnType(c.Type)
		if err != nil {
			return nil, err
		}

		nullable := true
		if c.Nullable != nil {
			if nullable, err = cast.ToBoolE(c.Nullable); err != nil {
				return nil, ErrInvalidFixture.New(fmt.Sprintf("column %s.%s: %s", t.Name, c.Name, err))
			}
		}
		cols[i] = &sql.Column{Name: c.Name, Type: typ, Nullable: nullable}
	}

	schema, err := sql.NewSchema(cols...)
	if err != nil {
		return nil, err
	}

	return sql.NewTableDesc(t.Name, schema, sql.NewTableMeta(storeType, options), t.Path), nil
}

func (f fixtureFunction) desc() (*sql.FunctionDesc, error) {
	if f.Name == "" {
		return nil, ErrInvalidFixture.New("function without name")
	}

	ret, err := sql.ParseType(f.Returns)
	if err != nil {
		return nil, err
	}

	var params []sql.Type
	for _, p := range f.Params {
		typ, err := sql.ParseType(p)
		if err != nil {
			return nil, err
		}
		params = append(params, typ)
	}

	kind := sql.GeneralFunction
	if f.Aggregate {
		kind = sql.AggregateFunction
	}

	return &sql.FunctionDesc{
		Name:        strings.ToLower(f.Name),
		Kind:        kind,
		ReturnType:  ret,
		Params:      params,
		Description: f.Description,
		Example:     f.Example,
	}, nil
}

// desc builds the index descriptor, taking the column from the table
// already in the catalog.
func (i fixtureIndex) desc(c sql.Catalog) (*sql.IndexDesc, error) {
	method := sql.TwoLevelBinTree
	if i.Method != "" {
		var err error
		if method, err = sql.ParseIndexMethod(i.Method); err != nil {
			return nil, err
		}
	}

	table, err := c.GetTableDesc(i.Table)
	if err != nil {
		return nil, err
	}

	col := table.Schema.Column(i.Column)
	if col == nil {
		return nil, sql.ErrTableColumnNotFound.New(i.Table, i.Column)
	}

	unique, err := cast.ToBoolE(orFalse(i.Unique))
	if err != nil {
		return nil, ErrInvalidFixture.New(fmt.Sprintf("index %s: %s", i.Name, err))
	}

	descending, err := cast.ToBoolE(orFalse(i.Descending))
	if err != nil {
		return nil, ErrInvalidFixture.New(fmt.Sprintf("index %s: %s", i.Name, err))
	}

	return &sql.IndexDesc{
		Name:      i.Name,
		Table:     table.Name,
		Column:    col,
		Method:    method,
		Unique:    unique,
		Ascending: !descending,
	}, nil
}

func orFalse(v interface{}) interface{} {
	if v == nil {
		return false
	}
	return v
}
