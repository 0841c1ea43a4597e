// Package boltdb provides a catalog persisted in a single bolt file.
package boltdb

import (
	"os"
	"sort"
	"strings"

	"github.com/boltdb/bolt"
	"github.com/src-d/go-nql/internal/wire"
	"github.com/src-d/go-nql/sql"
)

// buckets:
// - tables: lower-cased table name -> wire.Table
// - functions: function signature -> wire.Function
// - indexes: lower-cased index name -> wire.Index
var (
	tablesBucket    = []byte("tables")
	functionsBucket = []byte("functions")
	indexesBucket   = []byte("indexes")
)

// Catalog is a catalog stored in a bolt database. It is safe for concurrent
// use; readers run in bolt read transactions.
type Catalog struct {
	db *bolt.DB
}

var _ sql.Catalog = (*Catalog)(nil)

// Open opens the catalog stored at the given path, creating it if it does not
// exist.
func Open(path string, mode os.FileMode) (*Catalog, error) {
	db, err := bolt.Open(path, mode, nil)
	if err != nil {
		return nil, unavailable(err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{tablesBucket, functionsBucket, indexesBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, unavailable(err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func key(name string) []byte { return []byte(strings.ToLower(name)) }

func unavailable(err error) error {
	if sql.ErrCatalogUnavailable.Is(err) {
		return err
	}
	return sql.ErrCatalogUnavailable.Wrap(err, err.Error())
}

// view runs fn in a read transaction. Errors of the catalog protocol are
// returned as they are, any other error means the catalog is unusable.
func (c *Catalog) view(fn func(*bolt.Tx) error) error {
	return protocolError(c.db.View(fn))
}

func (c *Catalog) update(fn func(*bolt.Tx) error) error {
	return protocolError(c.db.Update(fn))
}

func protocolError(err error) error {
	switch {
	case err == nil:
		return nil
	case sql.ErrTableNotFound.Is(err),
		sql.ErrTableAlreadyExists.Is(err),
		sql.ErrFunctionNotFound.Is(err),
		sql.ErrFunctionAlreadyExists.Is(err),
		sql.ErrIndexNotFound.Is(err),
		sql.ErrIndexAlreadyExists.Is(err):
		return err
	default:
		return unavailable(err)
	}
}

func put(b *bolt.Bucket, k []byte, v interface{}) error {
	data, err := wire.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(k, data)
}

// GetTableDesc implements the sql.Catalog interface.
func (c *Catalog) GetTableDesc(name string) (*sql.TableDesc, error) {
	var desc *sql.TableDesc
	err := c.view(func(tx *bolt.Tx) error {
		data := tx.Bucket(tablesBucket).Get(key(name))
		if data == nil {
			return sql.ErrTableNotFound.New(name)
		}

		var t wire.Table
		if err := wire.Unmarshal(data, &t); err != nil {
			return err
		}

		var err error
		desc, err = t.Desc()
		return err
	})
	if err != nil {
		return nil, err
	}
	return desc, nil
}

// ExistsTable implements the sql.Catalog interface.
func (c *Catalog) ExistsTable(name string) (bool, error) {
	var ok bool
	err := c.view(func(tx *bolt.Tx) error {
		ok = tx.Bucket(tablesBucket).Get(key(name)) != nil
		return nil
	})
	return ok, err
}

// GetAllTableNames implements the sql.Catalog interface.
func (c *Catalog) GetAllTableNames() ([]string, error) {
	names := []string{}
	err := c.view(func(tx *bolt.Tx) error {
		return tx.Bucket(tablesBucket).ForEach(func(_, v []byte) error {
			var t wire.Table
			if err := wire.Unmarshal(v, &t); err != nil {
				return err
			}
			names = append(names, t.Name)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// AddTable implements the sql.Catalog interface.
func (c *Catalog) AddTable(desc *sql.TableDesc) error {
	rec, err := wire.NewTable(desc)
	if err != nil {
		return unavailable(err)
	}

	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tablesBucket)
		if b.Get(key(desc.Name)) != nil {
			return sql.ErrTableAlreadyExists.New(desc.Name)
		}
		return put(b, key(desc.Name), rec)
	})
}

// DeleteTable implements the sql.Catalog interface.
func (c *Catalog) DeleteTable(name string) error {
	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tablesBucket)
		if b.Get(key(name)) == nil {
			return sql.ErrTableNotFound.New(name)
		}
		return b.Delete(key(name))
	})
}

// GetFunctions implements the sql.Catalog interface. Functions are sorted by
// signature, which is the order of the keys of the bucket.
func (c *Catalog) GetFunctions() ([]*sql.FunctionDesc, error) {
	var fns []*sql.FunctionDesc
	err := c.view(func(tx *bolt.Tx) error {
		return tx.Bucket(functionsBucket).ForEach(func(_, v []byte) error {
			var f wire.Function
			if err := wire.Unmarshal(v, &f); err != nil {
				return err
			}

			desc, err := f.Desc()
			if err != nil {
				return err
			}
			fns = append(fns, desc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return fns, nil
}

// RegisterFunction implements the sql.Catalog interface.
func (c *Catalog) RegisterFunction(desc *sql.FunctionDesc) error {
	sig := []byte(desc.Signature())
	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(functionsBucket)
		if b.Get(sig) != nil {
			return sql.ErrFunctionAlreadyExists.New(strings.ToLower(desc.Name), sql.TypeList(desc.Params))
		}
		return put(b, sig, wire.NewFunction(desc))
	})
}

// UnregisterFunction implements the sql.Catalog interface.
func (c *Catalog) UnregisterFunction(name string, params []sql.Type) error {
	sig := []byte(sql.FunctionSignature(name, params))
	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(functionsBucket)
		if b.Get(sig) == nil {
			return sql.ErrFunctionNotFound.New(strings.ToLower(name), sql.TypeList(params))
		}
		return b.Delete(sig)
	})
}

// GetFunctionMeta implements the sql.Catalog interface.
func (c *Catalog) GetFunctionMeta(name string, params []sql.Type) (*sql.FunctionDesc, error) {
	var desc *sql.FunctionDesc
	err := c.view(func(tx *bolt.Tx) error {
		data := tx.Bucket(functionsBucket).Get([]byte(sql.FunctionSignature(name, params)))
		if data == nil {
			return sql.ErrFunctionNotFound.New(strings.ToLower(name), sql.TypeList(params))
		}

		var f wire.Function
		if err := wire.Unmarshal(data, &f); err != nil {
			return err
		}

		var err error
		desc, err = f.Desc()
		return err
	})
	if err != nil {
		return nil, err
	}
	return desc, nil
}

// ContainFunction implements the sql.Catalog interface.
func (c *Catalog) ContainFunction(name string, params []sql.Type) (bool, error) {
	var ok bool
	err := c.view(func(tx *bolt.Tx) error {
		ok = tx.Bucket(functionsBucket).Get([]byte(sql.FunctionSignature(name, params))) != nil
		return nil
	})
	return ok, err
}

// AddIndex implements the sql.Catalog interface.
func (c *Catalog) AddIndex(desc *sql.IndexDesc) error {
	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(indexesBucket)
		if b.Get(key(desc.Name)) != nil {
			return sql.ErrIndexAlreadyExists.New(desc.Name)
		}
		return put(b, key(desc.Name), wire.NewIndex(desc))
	})
}

// ExistIndex implements the sql.Catalog interface.
func (c *Catalog) ExistIndex(name string) (bool, error) {
	var ok bool
	err := c.view(func(tx *bolt.Tx) error {
		ok = tx.Bucket(indexesBucket).Get(key(name)) != nil
		return nil
	})
	return ok, err
}

// GetIndex implements the sql.Catalog interface.
func (c *Catalog) GetIndex(name string) (*sql.IndexDesc, error) {
	var desc *sql.IndexDesc
	err := c.view(func(tx *bolt.Tx) error {
		data := tx.Bucket(indexesBucket).Get(key(name))
		if data == nil {
			return sql.ErrIndexNotFound.New(name)
		}

		var idx wire.Index
		if err := wire.Unmarshal(data, &idx); err != nil {
			return err
		}

		var err error
		desc, err = idx.Desc()
		return err
	})
	if err != nil {
		return nil, err
	}
	return desc, nil
}

// DelIndex implements the sql.Catalog interface.
func (c *Catalog) DelIndex(name string) error {
	return c.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(indexesBucket)
		if b.Get(key(name)) == nil {
			return sql.ErrIndexNotFound.New(name)
		}
		return b.Delete(key(name))
	})
}
