package sql

import (
	"strings"
)

// Catalog is the metadata service holding table, function and index
// descriptors. All methods are synchronous. Implementations must be safe for
// concurrent readers; the analyzer only ever calls the read methods.
//
// Missing entries are reported with ErrTableNotFound, ErrFunctionNotFound and
// ErrIndexNotFound. Failures to reach the catalog are reported with
// ErrCatalogUnavailable.
type Catalog interface {
	// GetTableDesc returns the descriptor of the table with the given name.
	GetTableDesc(name string) (*TableDesc, error)
	// ExistsTable returns whether a table with the given name exists.
	ExistsTable(name string) (bool, error)
	// GetAllTableNames returns the names of all tables, sorted.
	GetAllTableNames() ([]string, error)
	// AddTable adds a table to the catalog.
	AddTable(desc *TableDesc) error
	// DeleteTable removes a table from the catalog.
	DeleteTable(name string) error

	// GetFunctions returns all registered functions.
	GetFunctions() ([]*FunctionDesc, error)
	// RegisterFunction registers a function signature.
	RegisterFunction(desc *FunctionDesc) error
	// UnregisterFunction removes the function with the given signature.
	UnregisterFunction(name string, params []Type) error
	// GetFunctionMeta returns the function matching exactly the given name
	// and ordered parameter types.
	GetFunctionMeta(name string, params []Type) (*FunctionDesc, error)
	// ContainFunction returns whether a function with the exact signature is
	// registered.
	ContainFunction(name string, params []Type) (bool, error)

	// AddIndex adds an index descriptor.
	AddIndex(desc *IndexDesc) error
	// ExistIndex returns whether an index with the given name exists.
	ExistIndex(name string) (bool, error)
	// GetIndex returns the index with the given name.
	GetIndex(name string) (*IndexDesc, error)
	// DelIndex removes the index with the given name.
	DelIndex(name string) error
}

// TableDesc describes a table stored in the catalog.
type TableDesc struct {
	Name   string
	Schema Schema
	Meta   *TableMeta
	Path   string
}

// NewTableDesc creates a table descriptor. Columns of the schema are owned by
// the table.
func NewTableDesc(name string, schema Schema, meta *TableMeta, path string) *TableDesc {
	return &TableDesc{
		Name:   name,
		Schema: schema.WithSource(name),
		Meta:   meta,
		Path:   path,
	}
}

// Copy returns a deep copy of the descriptor.
func (t *TableDesc) Copy() *TableDesc {
	nt := *t
	if t.Schema != nil {
		nt.Schema = make(Schema, len(t.Schema))
		for i, c := range t.Schema {
			nt.Schema[i] = c.WithSource(c.Source)
		}
	}
	if t.Meta != nil {
		nt.Meta = NewTableMeta(t.Meta.StoreType(), t.Meta.options)
	}
	return &nt
}

// FunctionKind tells general functions from aggregations.
type FunctionKind uint8

const (
	// GeneralFunction is a scalar function.
	GeneralFunction FunctionKind = iota
	// AggregateFunction computes a value over a group of rows.
	AggregateFunction
)

func (k FunctionKind) String() string {
	if k == AggregateFunction {
		return "AGGREGATION"
	}
	return "GENERAL"
}

// FunctionDesc describes a function signature registered in the catalog.
// The body of the function lives in the execution engine.
type FunctionDesc struct {
	Name        string
	Kind        FunctionKind
	ReturnType  Type
	Params      []Type
	Description string
	Example     string
}

// Copy returns a deep copy of the descriptor.
func (f *FunctionDesc) Copy() *FunctionDesc {
	nf := *f
	if f.Params != nil {
		nf.Params = make([]Type, len(f.Params))
		copy(nf.Params, f.Params)
	}
	return &nf
}

// Signature returns the identity of the function: its lower-cased name and
// parameter types.
func (f *FunctionDesc) Signature() string {
	return FunctionSignature(f.Name, f.Params)
}

// IsAggregate returns whether the function is an aggregation.
func (f *FunctionDesc) IsAggregate() bool {
	return f.Kind == AggregateFunction
}

// FunctionSignature formats a function name and parameter types as
// name(T1,T2).
func FunctionSignature(name string, params []Type) string {
	return strings.ToLower(name) + "(" + TypeList(params) + ")"
}

// TypeList formats types separated by commas.
func TypeList(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

// IndexMethod is the structure used by an index.
type IndexMethod uint8

const (
	TwoLevelBinTree IndexMethod = iota
	BTree
	Hash
	Bitmap
)

var indexMethodNames = []string{"TWO_LEVEL_BIN_TREE", "BTREE", "HASH", "BITMAP"}

// ParseIndexMethod matches the given name case-insensitively against the
// known index methods.
func ParseIndexMethod(name string) (IndexMethod, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range indexMethodNames {
		if n == upper {
			return IndexMethod(i), nil
		}
	}
	return 0, ErrUnknownIndexMethod.New(name)
}

func (m IndexMethod) String() string {
	if int(m) < len(indexMethodNames) {
		return indexMethodNames[m]
	}
	return "UNKNOWN"
}

// IndexDesc describes an index stored in the catalog.
type IndexDesc struct {
	Name      string
	Table     string
	Column    *Column
	Method    IndexMethod
	Unique    bool
	Ascending bool
}

// Copy returns a deep copy of the descriptor.
func (i *IndexDesc) Copy() *IndexDesc {
	ni := *i
	if i.Column != nil {
		ni.Column = i.Column.WithSource(i.Column.Source)
	}
	return &ni
}
