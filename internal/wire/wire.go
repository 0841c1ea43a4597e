// Package wire holds the msgpack records used to store catalog descriptors
// and to move them over the network. Types travel by name and table metas
// in their binary form.
package wire

import (
	"github.com/src-d/go-nql/sql"
	msgpack "gopkg.in/vmihailenco/msgpack.v2"
)

// Column is the record of a column.
type Column struct {
	Name     string `msgpack:"name"`
	Type     string `msgpack:"type"`
	Source   string `msgpack:"source,omitempty"`
	Nullable bool   `msgpack:"nullable"`
}

// Table is the record of a table descriptor.
type Table struct {
	Name    string    `msgpack:"name"`
	Columns []*Column `msgpack:"columns"`
	Meta    []byte    `msgpack:"meta,omitempty"`
	Path    string    `msgpack:"path,omitempty"`
}

// Function is the record of a function descriptor.
type Function struct {
	Name        string   `msgpack:"name"`
	Aggregate   bool     `msgpack:"aggregate"`
	ReturnType  string   `msgpack:"return_type"`
	Params      []string `msgpack:"params"`
	Description string   `msgpack:"description,omitempty"`
	Example     string   `msgpack:"example,omitempty"`
}

// Signature identifies a function.
type Signature struct {
	Name   string   `msgpack:"name"`
	Params []string `msgpack:"params"`
}

// Index is the record of an index descriptor.
type Index struct {
	Name      string  `msgpack:"name"`
	Table     string  `msgpack:"table"`
	Column    *Column `msgpack:"column"`
	Method    string  `msgpack:"method"`
	Unique    bool    `msgpack:"unique"`
	Ascending bool    `msgpack:"ascending"`
}

// Marshal encodes a record.
func Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes a record.
func Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// NewColumn returns the record of the given column.
func NewColumn(c *sql.Column) *Column {
	return &Column{Name: c.Name, Type: c.Type.String(), Source: c.Source, Nullable: c.Nullable}
}

// Column returns the column the record describes.
func (c *Column) Column() (*sql.Column, error) {
	t, err := sql.ParseType(c.Type)
	if err != nil {
		return nil, err
	}
	return &sql.Column{Name: c.Name, Type: t, Source: c.Source, Nullable: c.Nullable}, nil
}

// NewTable returns the record of the given table descriptor.
func NewTable(desc *sql.TableDesc) (*Table, error) {
	t := &Table{Name: desc.Name, Path: desc.Path}
	for _, c := range desc.Schema {
		t.Columns = append(t.Columns, NewColumn(c))
	}

	if desc.Meta != nil {
		meta, err := desc.Meta.MarshalBinary()
		if err != nil {
			return nil, err
		}
		t.Meta = meta
	}

	return t, nil
}

// Desc returns the table descriptor the record describes.
func (t *Table) Desc() (*sql.TableDesc, error) {
	schema := make(sql.Schema, len(t.Columns))
	for i, c := range t.Columns {
		col, err := c.Column()
		if err != nil {
			return nil, err
		}
		schema[i] = col
	}

	var meta *sql.TableMeta
	if len(t.Meta) > 0 {
		meta = new(sql.TableMeta)
		if err := meta.UnmarshalBinary(t.Meta); err != nil {
			return nil, err
		}
	}

	return sql.NewTableDesc(t.Name, schema, meta, t.Path), nil
}

// NewFunction returns the record of the given function descriptor.
func NewFunction(desc *sql.FunctionDesc) *Function {
	return &Function{
		Name:        desc.Name,
		Aggregate:   desc.IsAggregate(),
		ReturnType:  desc.ReturnType.String(),
		Params:      TypeNames(desc.Params),
		Description: desc.Description,
		Example:     desc.Example,
	}
}

// Desc returns the function descriptor the record describes.
func (f *Function) Desc() (*sql.FunctionDesc, error) {
	ret, err := sql.ParseType(f.ReturnType)
	if err != nil {
		return nil, err
	}

	params, err := ParseTypes(f.Params)
	if err != nil {
		return nil, err
	}

	kind := sql.GeneralFunction
	if f.Aggregate {
		kind = sql.AggregateFunction
	}

	return &sql.FunctionDesc{
		Name:        f.Name,
		Kind:        kind,
		ReturnType:  ret,
		Params:      params,
		Description: f.Description,
		Example:     f.Example,
	}, nil
}

// NewIndex returns the record of the given index descriptor.
func NewIndex(desc *sql.IndexDesc) *Index {
	idx := &Index{
		Name:      desc.Name,
		Table:     desc.Table,
		Method:    desc.Method.String(),
		Unique:    desc.Unique,
		Ascending: desc.Ascending,
	}
	if desc.Column != nil {
		idx.Column = NewColumn(desc.Column)
	}
	return idx
}

// Desc returns the index descriptor the record describes.
func (i *Index) Desc() (*sql.IndexDesc, error) {
	method, err := sql.ParseIndexMethod(i.Method)
	if err != nil {
		return nil, err
	}

	desc := &sql.IndexDesc{
		Name:      i.Name,
		Table:     i.Table,
		Method:    method,
		Unique:    i.Unique,
		Ascending: i.Ascending,
	}

	if i.Column != nil {
		if desc.Column, err = i.Column.Column(); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

// TypeNames returns the names of the given types.
func TypeNames(types []sql.Type) []string {
	if len(types) == 0 {
		return nil
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// ParseTypes parses type names. An empty list yields nil.
func ParseTypes(names []string) ([]sql.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}

	types := make([]sql.Type, len(names))
	for i, n := range names {
		t, err := sql.ParseType(n)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}
