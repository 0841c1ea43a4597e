// Package memory provides a catalog kept in memory, mostly useful for tests
// and for tools that load their tables from fixtures.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/src-d/go-nql/sql"
)

// Catalog is an in-memory catalog. It is safe for concurrent use.
// Descriptors are copied on the way in and on the way out, so callers own
// the descriptors they pass and receive.
type Catalog struct {
	mu        sync.RWMutex
	tables    map[string]*sql.TableDesc
	functions map[string]*sql.FunctionDesc
	indexes   map[string]*sql.IndexDesc
}

var _ sql.Catalog = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables:    make(map[string]*sql.TableDesc),
		functions: make(map[string]*sql.FunctionDesc),
		indexes:   make(map[string]*sql.IndexDesc),
	}
}

func key(name string) string { return strings.ToLower(name) }

// GetTableDesc implements the sql.Catalog interface.
func (c *Catalog) GetTableDesc(name string) (*sql.TableDesc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[key(name)]
	if !ok {
		return nil, sql.ErrTableNotFound.New(name)
	}
	return t.Copy(), nil
}

// ExistsTable implements the sql.Catalog interface.
func (c *Catalog) ExistsTable(name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.tables[key(name)]
	return ok, nil
}

// GetAllTableNames implements the sql.Catalog interface.
func (c *Catalog) GetAllTableNames() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names, nil
}

// AddTable implements the sql.Catalog interface.
func (c *Catalog) AddTable(desc *sql.TableDesc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(desc.Name)
	if _, ok := c.tables[k]; ok {
		return sql.ErrTableAlreadyExists.New(desc.Name)
	}
	c.tables[k] = desc.Copy()
	return nil
}

// DeleteTable implements the sql.Catalog interface.
func (c *Catalog) DeleteTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(name)
	if _, ok := c.tables[k]; !ok {
		return sql.ErrTableNotFound.New(name)
	}
	delete(c.tables, k)
	return nil
}

// GetFunctions implements the sql.Catalog interface. Functions are sorted by
// signature.
func (c *Catalog) GetFunctions() ([]*sql.FunctionDesc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fns := make([]*sql.FunctionDesc, 0, len(c.functions))
	for _, fn := range c.functions {
		fns = append(fns, fn.Copy())
	}
	sort.Slice(fns, func(i, j int) bool {
		return fns[i].Signature() < fns[j].Signature()
	})
	return fns, nil
}

// RegisterFunction implements the sql.Catalog interface.
func (c *Catalog) RegisterFunction(desc *sql.FunctionDesc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sig := desc.Signature()
	if _, ok := c.functions[sig]; ok {
		return sql.ErrFunctionAlreadyExists.New(key(desc.Name), sql.TypeList(desc.Params))
	}
	c.functions[sig] = desc.Copy()
	return nil
}

// UnregisterFunction implements the sql.Catalog interface.
func (c *Catalog) UnregisterFunction(name string, params []sql.Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sig := sql.FunctionSignature(name, params)
	if _, ok := c.functions[sig]; !ok {
		return sql.ErrFunctionNotFound.New(key(name), sql.TypeList(params))
	}
	delete(c.functions, sig)
	return nil
}

// GetFunctionMeta implements the sql.Catalog interface.
func (c *Catalog) GetFunctionMeta(name string, params []sql.Type) (*sql.FunctionDesc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn, ok := c.functions[sql.FunctionSignature(name, params)]
	if !ok {
		return nil, sql.ErrFunctionNotFound.New(key(name), sql.TypeList(params))
	}
	return fn.Copy(), nil
}

// ContainFunction implements the sql.Catalog interface.
func (c *Catalog) ContainFunction(name string, params []sql.Type) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.functions[sql.FunctionSignature(name, params)]
	return ok, nil
}

// AddIndex implements the sql.Catalog interface.
func (c *Catalog) AddIndex(desc *sql.IndexDesc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(desc.Name)
	if _, ok := c.indexes[k]; ok {
		return sql.ErrIndexAlreadyExists.New(desc.Name)
	}
	c.indexes[k] = desc.Copy()
	return nil
}

// ExistIndex implements the sql.Catalog interface.
func (c *Catalog) ExistIndex(name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.indexes[key(name)]
	return ok, nil
}

// GetIndex implements the sql.Catalog interface.
func (c *Catalog) GetIndex(name string) (*sql.IndexDesc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.indexes[key(name)]
	if !ok {
		return nil, sql.ErrIndexNotFound.New(name)
	}
	return idx.Copy(), nil
}

// DelIndex implements the sql.Catalog interface.
func (c *Catalog) DelIndex(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(name)
	if _, ok := c.indexes[k]; !ok {
		return sql.ErrIndexNotFound.New(name)
	}
	delete(c.indexes, k)
	return nil
}
